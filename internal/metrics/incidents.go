// internal/metrics/incidents.go
package metrics

import (
    "log"
    "sync"
    "sync/atomic"
    "time"

    "github.com/agencydesk/agencydesk-backend/internal/queue"
)

// Incidents counts stale-id healing outcomes. The counters are
// diagnostic only and never gate business logic; they exist so the
// healing rate can be watched after sheet restructures.
type Incidents struct {
    autoHeal int64
    true404  int64

    mu    sync.Mutex
    since time.Time

    Events queue.Queue // optional, may be nil
}

// IncidentEvent is the structured diagnostic record published on the
// incident_events topic for each heal or true-404.
type IncidentEvent struct {
    Kind    string    `json:"kind"` // auto_heal | true_404
    OldID   int       `json:"old_id,omitempty"`
    NewID   int       `json:"new_id,omitempty"`
    ID      int       `json:"id,omitempty"`
    OwnerID string    `json:"owner_id,omitempty"`
    Context string    `json:"context"`
    At      time.Time `json:"at"`
}

// Stats is the poll shape returned by the incidents endpoint.
type Stats struct {
    AutoHealCount int64   `json:"auto_heal_count"`
    True404Count  int64   `json:"true_404_count"`
    UptimeSeconds float64 `json:"uptime_seconds"`
    AutoHealRate  float64 `json:"auto_heal_rate"` // heals per hour since reset
}

func NewIncidents(events queue.Queue) *Incidents {
    return &Incidents{since: time.Now(), Events: events}
}

// RecordAutoHeal notes one transparent id substitution.
func (m *Incidents) RecordAutoHeal(oldID, newID int, context string) {
    atomic.AddInt64(&m.autoHeal, 1)
    log.Printf("🩹 auto-heal: id %d -> %d (%s)", oldID, newID, context)
    m.publish(IncidentEvent{Kind: "auto_heal", OldID: oldID, NewID: newID, Context: context, At: time.Now()})
}

// RecordTrue404 notes one unresolvable id where no correlation key
// resolved uniquely.
func (m *Incidents) RecordTrue404(id int, ownerID, context string) {
    atomic.AddInt64(&m.true404, 1)
    log.Printf("❌ true-404: id %d owner %s (%s)", id, ownerID, context)
    m.publish(IncidentEvent{Kind: "true_404", ID: id, OwnerID: ownerID, Context: context, At: time.Now()})
}

func (m *Incidents) publish(ev IncidentEvent) {
    if m.Events == nil {
        return
    }
    if err := m.Events.Publish("incident_events", ev); err != nil {
        log.Println("⚠️ failed to publish incident event:", err)
    }
}

// GetStats returns the counters plus uptime and heals-per-hour since
// the last reset.
func (m *Incidents) GetStats() Stats {
    m.mu.Lock()
    since := m.since
    m.mu.Unlock()

    uptime := time.Since(since).Seconds()
    heals := atomic.LoadInt64(&m.autoHeal)

    rate := 0.0
    if uptime > 0 {
        rate = float64(heals) / (uptime / 3600)
    }
    return Stats{
        AutoHealCount: heals,
        True404Count:  atomic.LoadInt64(&m.true404),
        UptimeSeconds: uptime,
        AutoHealRate:  rate,
    }
}

// Reset zeroes both counters and restarts the uptime clock.
func (m *Incidents) Reset() {
    atomic.StoreInt64(&m.autoHeal, 0)
    atomic.StoreInt64(&m.true404, 0)
    m.mu.Lock()
    m.since = time.Now()
    m.mu.Unlock()
}
