package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	m := NewIncidents(nil)

	m.RecordAutoHeal(7, 12, "customer update")
	m.RecordAutoHeal(3, 9, "lead update")
	m.RecordTrue404(999, "agent-01", "customer delete")

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.AutoHealCount)
	assert.Equal(t, int64(1), stats.True404Count)
}

func TestCountersAreAtomic(t *testing.T) {
	m := NewIncidents(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordAutoHeal(1, 2, "concurrent")
			m.RecordTrue404(3, "agent-01", "concurrent")
		}()
	}
	wg.Wait()

	stats := m.GetStats()
	assert.Equal(t, int64(50), stats.AutoHealCount)
	assert.Equal(t, int64(50), stats.True404Count)
}

func TestAutoHealRate(t *testing.T) {
	m := NewIncidents(nil)
	m.RecordAutoHeal(7, 12, "customer update")

	stats := m.GetStats()
	assert.Greater(t, stats.UptimeSeconds, 0.0)
	// one heal over a sub-second uptime is a very high hourly rate
	assert.Greater(t, stats.AutoHealRate, 1.0)
}

func TestReset(t *testing.T) {
	m := NewIncidents(nil)
	m.RecordAutoHeal(7, 12, "customer update")
	m.RecordTrue404(999, "agent-01", "customer update")

	m.Reset()

	stats := m.GetStats()
	assert.Equal(t, int64(0), stats.AutoHealCount)
	assert.Equal(t, int64(0), stats.True404Count)
	assert.Less(t, stats.UptimeSeconds, 1.0)
	assert.Equal(t, 0.0, stats.AutoHealRate)
}
