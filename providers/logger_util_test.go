package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "agriassist.app/errors"
	"agriassist.app/providers/cache"
)

func TestFileLoggerWritesJSONLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "upstream.log")

	logger, err := NewFileLogger(logPath)
	require.NoError(t, err)

	logger.LogRequest("weather", "lat=28.60 lon=77.20")
	logger.LogResponse("weather", "lat=28.60 lon=77.20", 120*time.Millisecond)
	logger.LogError("news", "category=general", apperrors.NewThrottledError("news"), 80*time.Millisecond)

	file, err := os.Open(logPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, file.Close())
	}()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, entries, 3)
	assert.Equal(t, "request", entries[0]["event"])
	assert.Equal(t, "weather", entries[0]["service"])
	assert.Equal(t, "response", entries[1]["event"])
	assert.Equal(t, float64(120), entries[1]["duration_ms"])
	assert.Equal(t, "error", entries[2]["event"])
	assert.Contains(t, entries[2]["error"], "THROTTLED_ERROR")
}

func TestInstrumentedCacheCountsHitsAndMisses(t *testing.T) {
	c := NewInstrumentedCache(cache.NewMemoryCache(), "memory")

	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, found := c.Get(ctx, "k")
	assert.True(t, found)
	_, found = c.Get(ctx, "missing")
	assert.False(t, found)

	stats := c.GetMetrics().GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, int64(2), stats["total"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}
