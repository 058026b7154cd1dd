package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/agencydesk/agencydesk-backend/internal/errors"
	"github.com/agencydesk/agencydesk-backend/internal/metrics"
)

// mockResolver maps ids and sheet rows in memory
type mockResolver struct {
	ids       map[int]bool
	sheetRows map[int][]int
}

func (m *mockResolver) ExistsByID(ownerID string, id int) (bool, error) {
	return m.ids[id], nil
}

func (m *mockResolver) IDsBySheetRow(ownerID string, row int) ([]int, error) {
	return m.sheetRows[row], nil
}

func intPtr(v int) *int { return &v }

func TestResolveDirectHit(t *testing.T) {
	incidents := metrics.NewIncidents(nil)
	h := &Healer{Incidents: incidents}
	res := &mockResolver{ids: map[int]bool{7: true}}

	outcome, err := h.Resolve(res, "customer", "agent-01", 7, intPtr(4), "customer update")
	require.NoError(t, err)
	assert.Equal(t, 7, outcome.ID)
	assert.False(t, outcome.Healed)

	stats := incidents.GetStats()
	assert.Equal(t, int64(0), stats.AutoHealCount)
	assert.Equal(t, int64(0), stats.True404Count)
}

func TestResolveStaleHealable(t *testing.T) {
	incidents := metrics.NewIncidents(nil)
	h := &Healer{Incidents: incidents}
	res := &mockResolver{
		ids:       map[int]bool{12: true},
		sheetRows: map[int][]int{4: {12}},
	}

	outcome, err := h.Resolve(res, "customer", "agent-01", 7, intPtr(4), "customer update")
	require.NoError(t, err)
	assert.Equal(t, 12, outcome.ID)
	assert.True(t, outcome.Healed)
	assert.Equal(t, 7, outcome.OldID)
	assert.Equal(t, 12, outcome.NewID)

	assert.Equal(t, int64(1), incidents.GetStats().AutoHealCount)
}

func TestResolveTrueNotFoundWithoutCorrelationKey(t *testing.T) {
	incidents := metrics.NewIncidents(nil)
	h := &Healer{Incidents: incidents}
	res := &mockResolver{ids: map[int]bool{}}

	outcome, err := h.Resolve(res, "customer", "agent-01", 999, nil, "customer update")
	require.Error(t, err)
	assert.Nil(t, outcome)

	nf, ok := appErrors.AsRecordNotFound(err)
	require.True(t, ok)
	assert.True(t, nf.ShouldRefresh)
	assert.Equal(t, 999, nf.ID)

	assert.Equal(t, int64(1), incidents.GetStats().True404Count)
}

func TestResolveUnresolvableRow(t *testing.T) {
	incidents := metrics.NewIncidents(nil)
	h := &Healer{Incidents: incidents}
	res := &mockResolver{sheetRows: map[int][]int{}}

	_, err := h.Resolve(res, "lead", "agent-01", 42, intPtr(9), "lead delete")
	require.Error(t, err)

	nf, ok := appErrors.AsRecordNotFound(err)
	require.True(t, ok)
	assert.True(t, nf.ShouldRefresh)
	assert.Equal(t, int64(1), incidents.GetStats().True404Count)
}

func TestResolveAmbiguousRowIsTrueNotFound(t *testing.T) {
	// two records sharing the correlation key: substituting either
	// could mutate the wrong one, so the healer must not guess
	incidents := metrics.NewIncidents(nil)
	h := &Healer{Incidents: incidents}
	res := &mockResolver{
		ids:       map[int]bool{12: true, 13: true},
		sheetRows: map[int][]int{4: {12, 13}},
	}

	_, err := h.Resolve(res, "customer", "agent-01", 7, intPtr(4), "customer update")
	require.Error(t, err)

	_, ok := appErrors.AsRecordNotFound(err)
	assert.True(t, ok)
	stats := incidents.GetStats()
	assert.Equal(t, int64(0), stats.AutoHealCount)
	assert.Equal(t, int64(1), stats.True404Count)
}
