package flightlog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mr "github.com/jigyokei-ai/modelroute"
	"github.com/jigyokei-ai/modelroute/flightlog"
)

func entry(model string, tier int, outcome mr.Outcome) mr.FlightEntry {
	return mr.FlightEntry{
		Time:      time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		RequestID: "req-1",
		Category:  mr.CategoryReasoning,
		Model:     model,
		Tier:      tier,
		Outcome:   outcome,
	}
}

func TestFileLog_WritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flight.md")

	log, err := flightlog.NewFile(path)
	require.NoError(t, err)

	require.NoError(t, log.Append(entry("model-a", 0, mr.OutcomeSuccess)))
	e := entry("model-a", 0, mr.OutcomeQuotaExhausted)
	e.Err = "rpm limit"
	require.NoError(t, log.Append(e))
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "# Model Flight Log"))
	assert.Contains(t, content, "| 2026-08-30 12:00:00 | reasoning | model-a | 1 | success |")
	assert.Contains(t, content, "| 2026-08-30 12:00:00 | reasoning | model-a | 1 | quota_exhausted: rpm limit |")
}

func TestFileLog_AppendsWithoutDuplicateHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flight.md")

	log, err := flightlog.NewFile(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(entry("model-a", 0, mr.OutcomeSuccess)))
	require.NoError(t, log.Close())

	log, err = flightlog.NewFile(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(entry("model-b", 1, mr.OutcomeSuccess)))
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "# Model Flight Log"))
	assert.Equal(t, 2, strings.Count(string(data), "| success |"))
}

func TestRotatingFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flight.log")

	log := flightlog.NewRotatingFile(path, 1, 2)
	require.NoError(t, log.Append(entry("model-a", 0, mr.OutcomeSuccess)))
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "model-a")
}

func TestMemory_RetainsAndTrims(t *testing.T) {
	log := flightlog.NewMemoryWithCapacity(2)

	require.NoError(t, log.Append(entry("model-a", 0, mr.OutcomeSuccess)))
	require.NoError(t, log.Append(entry("model-b", 1, mr.OutcomeSuccess)))
	require.NoError(t, log.Append(entry("model-c", 2, mr.OutcomeSuccess)))

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "model-b", entries[0].Model)
	assert.Equal(t, "model-c", entries[1].Model)
}

func TestMemory_Stats(t *testing.T) {
	log := flightlog.NewMemory()

	now := time.Now()
	for i, outcome := range []mr.Outcome{
		mr.OutcomeSuccess,
		mr.OutcomeQuotaExhausted,
		mr.OutcomeSuccess,
		mr.OutcomeError,
	} {
		e := entry("model-a", i%2, outcome)
		e.Time = now
		if outcome == mr.OutcomeError {
			e.Err = "boom"
			e.Model = "model-b"
		}
		require.NoError(t, log.Append(e))
	}

	stats := log.Stats(time.Hour)
	assert.Equal(t, 4, stats.Total)
	assert.InDelta(t, 50.0, stats.SuccessRate, 0.01)
	assert.Equal(t, 2, stats.TierCounts[0])
	assert.Equal(t, 2, stats.TierCounts[1])
	require.Len(t, stats.RecentErrors, 1)
	assert.Equal(t, "boom", stats.RecentErrors[0].Err)
	assert.Equal(t, "model-b", stats.LastModel)
}

func TestMemory_StatsEmpty(t *testing.T) {
	stats := flightlog.NewMemory().Stats(time.Hour)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 100.0, stats.SuccessRate)
}

func TestZapLog_NeverFails(t *testing.T) {
	log := flightlog.NewZapLog(zap.NewNop())
	assert.NoError(t, log.Append(entry("model-a", 0, mr.OutcomeSuccess)))

	e := entry("model-a", 0, mr.OutcomeQuotaExhausted)
	e.Err = "rpm limit"
	assert.NoError(t, log.Append(e))

	assert.NoError(t, flightlog.NewZapLog(nil).Append(entry("model-a", 0, mr.OutcomeSuccess)))
}
