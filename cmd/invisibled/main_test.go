package main

import (
	"net"
	"os"
	"strconv"
	"syscall"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/invisible-transfer/invisible-daemon/internal/config"
	dbbadger "github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/badger"
)

func TestRunReleasesResourcesOnStartFailure(t *testing.T) {
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer lis.Close()

	initTestConfig(t, lis.Addr().(*net.TCPAddr).Port)

	err = run(make(chan os.Signal))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to start daemon")

	// The badger directory lock is released only if the db was closed.
	repoManager, err := dbbadger.NewRepoManager(
		config.GetDbDir(), log.StandardLogger(),
	)
	require.NoError(t, err)
	repoManager.Close()
}

func TestRunStopsOnSignal(t *testing.T) {
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())

	initTestConfig(t, port)

	quit := make(chan os.Signal, 1)
	done := make(chan error, 1)
	go func() { done <- run(quit) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 5*time.Second, 50*time.Millisecond)

	quit <- syscall.SIGTERM

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not stop")
	}
}

func initTestConfig(t *testing.T, port int) {
	t.Setenv("INVISIBLE_DATADIR", t.TempDir())
	t.Setenv("INVISIBLE_LISTENING_PORT", strconv.Itoa(port))
	t.Setenv("INVISIBLE_DB_TYPE", "badger")
	t.Setenv("INVISIBLE_QUOTER_TYPE", "simulated")
	require.NoError(t, config.InitConfig())
}
