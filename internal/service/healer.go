// internal/service/healer.go
package service

import (
    appErrors "github.com/agencydesk/agencydesk-backend/internal/errors"
    "github.com/agencydesk/agencydesk-backend/internal/metrics"
)

// RecordResolver is the slice of a repository the healer needs. Both
// the customer and lead repositories satisfy it.
type RecordResolver interface {
    ExistsByID(ownerID string, id int) (bool, error)
    IDsBySheetRow(ownerID string, row int) ([]int, error)
}

// HealOutcome reports which id a mutation should target. When Healed is
// set the caller must surface _idChanged/_oldId/_newId so clients can
// update their cache.
type HealOutcome struct {
    ID     int
    Healed bool
    OldID  int
    NewID  int
}

// Healer resolves potentially stale record ids. The spreadsheet is the
// system of record: inserting or removing a row there renumbers every
// row after it, invalidating every locally cached id issued since. The
// sheet row number is the externally stable key used to re-resolve.
type Healer struct {
    Incidents *metrics.Incidents
}

// Resolve runs the three-state resolution:
//
//   - id found directly: proceed, no healing
//   - id missing but the sheet row resolves to exactly one record:
//     substitute that record's canonical id and count an auto-heal
//   - otherwise (including an ambiguous row match, where guessing could
//     mutate the wrong record): fail not-found with shouldRefresh set,
//     counting a true-404
func (h *Healer) Resolve(res RecordResolver, entity, ownerID string, id int, sheetRow *int, context string) (*HealOutcome, error) {
    found, err := res.ExistsByID(ownerID, id)
    if err != nil {
        return nil, err
    }
    if found {
        return &HealOutcome{ID: id}, nil
    }

    if sheetRow != nil {
        ids, err := res.IDsBySheetRow(ownerID, *sheetRow)
        if err != nil {
            return nil, err
        }
        if len(ids) == 1 {
            h.Incidents.RecordAutoHeal(id, ids[0], context)
            return &HealOutcome{ID: ids[0], Healed: true, OldID: id, NewID: ids[0]}, nil
        }
    }

    h.Incidents.RecordTrue404(id, ownerID, context)
    return nil, appErrors.NewRecordNotFound(entity, id)
}
