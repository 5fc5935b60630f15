package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/invisible-transfer/invisible-daemon/internal/config"
	"github.com/invisible-transfer/invisible-daemon/internal/core/application"
	postgresdb "github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/pg"
	httpinterface "github.com/invisible-transfer/invisible-daemon/internal/interfaces/http"
	"github.com/invisible-transfer/invisible-daemon/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	if err := run(sigChan); err != nil {
		log.WithError(err).Fatal("daemon exited with error")
	}
}

// run starts the daemon and blocks until a value is received from quit.
// Any resource opened along the way is released before returning.
func run(quit <-chan os.Signal) error {
	appConfig := &application.Config{
		DBType:           config.GetString(config.DBTypeKey),
		DBConfig:         dbConfig(),
		CacheSize:        config.GetInt64(config.CacheSizeKey),
		QuoterType:       config.GetString(config.QuoterTypeKey),
		KrakenURL:        config.GetString(config.KrakenWsURLKey),
		KrakenPairs:      config.GetStringSlice(config.KrakenPairsKey),
		QuotePriceImpact: config.GetDecimal(config.QuotePriceImpactKey),
		QuoteRateLimit:   config.GetInt(config.QuoteRateLimitKey),
		HookAddress:      config.GetString(config.HookAddressKey),
	}
	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("invalid app config: %w", err)
	}
	defer appConfig.Close()

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:            fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey)),
		CORSAllowedOrigins: config.GetStringSlice(config.CORSAllowedOriginsKey),
		CommitmentSvc:      appConfig.CommitmentService(),
		QuoteSvc:           appConfig.QuoteService(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize http interface: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var statsDone <-chan struct{}
	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		statsDone = stats.EnableMemoryStatistics(
			ctx, interval, config.GetProfilerDir(),
		)
	}

	log.Infof(
		"starting daemon with %s db and %s quoter",
		appConfig.DBType, appConfig.QuoterType,
	)

	if err := svc.Start(); err != nil {
		cancel()
		if statsDone != nil {
			<-statsDone
		}
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	<-quit

	log.Info("shutting down daemon")
	svc.Stop()

	cancel()
	if statsDone != nil {
		<-statsDone
	}

	log.Info("exiting")
	return nil
}

func dbConfig() interface{} {
	switch config.GetString(config.DBTypeKey) {
	case application.DBPostgres:
		return postgresdb.DbConfig{
			DataSourceURL:      config.GetString(config.PgConnectAddr),
			MigrationSourceURL: config.GetString(config.PgMigrationSource),
		}
	case application.DBInMemory:
		return nil
	default:
		return config.GetDbDir()
	}
}
