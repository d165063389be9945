package modelroute

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerAt(start time.Time) (*MemoryLedger, *time.Time) {
	l := NewMemoryLedger()
	now := start
	l.now = func() time.Time { return now }
	return l, &now
}

func TestMemoryLedger_MinuteWindowReset(t *testing.T) {
	l, now := ledgerAt(time.Date(2026, 8, 30, 10, 0, 30, 0, time.UTC))
	desc := ModelDescriptor{ID: "m", RPM: 2}

	require.True(t, l.TryReserve("m", desc))
	l.Record("m")
	l.Record("m")
	assert.False(t, l.TryReserve("m", desc))

	// 40 seconds later the wall-clock minute boundary has passed.
	*now = now.Add(40 * time.Second)
	assert.True(t, l.TryReserve("m", desc))

	minute, day := l.Usage("m")
	assert.Equal(t, 0, minute)
	assert.Equal(t, 2, day)
}

func TestMemoryLedger_DayWindowResetsAtUTCMidnight(t *testing.T) {
	l, now := ledgerAt(time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC))
	desc := ModelDescriptor{ID: "m", RPD: 2}

	l.Record("m")
	l.Record("m")
	assert.False(t, l.TryReserve("m", desc))

	*now = now.Add(2 * time.Minute) // crosses midnight UTC
	assert.True(t, l.TryReserve("m", desc))

	_, day := l.Usage("m")
	assert.Equal(t, 0, day)
}

func TestMemoryLedger_MinuteResetKeepsDayCount(t *testing.T) {
	l, now := ledgerAt(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	desc := ModelDescriptor{ID: "m", RPM: 1, RPD: 2}

	l.Record("m")
	assert.False(t, l.TryReserve("m", desc))

	*now = now.Add(time.Minute)
	assert.True(t, l.TryReserve("m", desc))
	l.Record("m")

	// Day limit reached even though the minute window is fresh.
	*now = now.Add(time.Minute)
	assert.False(t, l.TryReserve("m", desc))
}

func TestMemoryLedger_ZeroQuotaMeansUnlimited(t *testing.T) {
	l := NewMemoryLedger()
	desc := ModelDescriptor{ID: "m"}

	for i := 0; i < 100; i++ {
		require.True(t, l.TryReserve("m", desc))
		l.Record("m")
	}

	minute, day := l.Usage("m")
	assert.Equal(t, 100, minute)
	assert.Equal(t, 100, day)
}

func TestMemoryLedger_ConcurrentRecord(t *testing.T) {
	l := NewMemoryLedger()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Record("m")
		}()
	}
	wg.Wait()

	_, day := l.Usage("m")
	assert.Equal(t, n, day)
}

func TestMemoryLedger_UnknownModelUsage(t *testing.T) {
	l := NewMemoryLedger()
	minute, day := l.Usage("never-seen")
	assert.Equal(t, 0, minute)
	assert.Equal(t, 0, day)
}
