package stats_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/invisible-transfer/invisible-daemon/pkg/stats"
)

func TestEnableMemoryStatistics(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	done := stats.EnableMemoryStatistics(ctx, 10*time.Millisecond, dir)
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("statistics did not stop")
	}

	content, err := os.ReadFile(filepath.Join(dir, stats.DumpFile))
	require.NoError(t, err)
	require.Contains(t, string(content), "go_goroutines")
}

func TestDumpPrometheusDefaults(t *testing.T) {
	err := stats.DumpPrometheusDefaults(
		filepath.Join(t.TempDir(), "missing", stats.DumpFile),
	)
	require.Error(t, err)
}
