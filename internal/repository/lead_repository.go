package repository

import (
    "database/sql"
    "time"

    "github.com/lib/pq"

    "github.com/agencydesk/agencydesk-backend/internal/model"
)

// LeadRepositoryInterface mirrors the customer repository for the lead
// id space
type LeadRepositoryInterface interface {
    GetByID(ownerID string, id int) (*model.Lead, error)
    ExistsByID(ownerID string, id int) (bool, error)
    IDsBySheetRow(ownerID string, row int) ([]int, error)
    ListByOwner(ownerID string) ([]model.Lead, error)
    Create(l *model.Lead) error
    Update(l *model.Lead) error
    UpdateSheetRow(id, row int) error
    MarkDeleted(ownerID string, id int) error
    ListTombstones(ownerID string) ([]model.DeletedRecord, error)
    PurgeTombstones(ownerID string, ids []int) error
    UpsertBySheetRow(l *model.Lead) (bool, error)
}

type LeadRepository struct {
    DB *sql.DB
}

const leadColumns = `id, owner_id, name, dob, g_code, pancard, aadhar_card,
        mobile_number, email, vertical, product_type, lead_status, priority,
        follow_up_date, notes, sheet_row_number, deleted_at, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (*model.Lead, error) {
    var l model.Lead
    err := row.Scan(
        &l.ID, &l.OwnerID, &l.Name, &l.DOB, &l.GCode, &l.Pancard, &l.AadharCard,
        &l.MobileNumber, &l.Email, &l.Vertical, &l.ProductType, &l.LeadStatus, &l.Priority,
        &l.FollowUpDate, &l.Notes, &l.SheetRowNumber, &l.DeletedAt, &l.CreatedAt, &l.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &l, nil
}

func (r *LeadRepository) GetByID(ownerID string, id int) (*model.Lead, error) {
    query := `
        SELECT ` + leadColumns + `
        FROM leads
        WHERE owner_id=$1 AND id=$2 AND deleted_at IS NULL
    `
    l, err := scanLead(r.DB.QueryRow(query, ownerID, id))
    if err == sql.ErrNoRows {
        return nil, nil // not found
    }
    return l, err
}

func (r *LeadRepository) ExistsByID(ownerID string, id int) (bool, error) {
    var count int
    err := r.DB.QueryRow(`
        SELECT COUNT(*)
        FROM leads
        WHERE owner_id=$1 AND id=$2 AND deleted_at IS NULL`, ownerID, id).Scan(&count)
    if err != nil {
        return false, err
    }
    return count > 0, nil
}

func (r *LeadRepository) IDsBySheetRow(ownerID string, row int) ([]int, error) {
    rows, err := r.DB.Query(`
        SELECT id FROM leads
        WHERE owner_id=$1 AND sheet_row_number=$2 AND deleted_at IS NULL
        ORDER BY id`, ownerID, row)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    ids := []int{}
    for rows.Next() {
        var id int
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, rows.Err()
}

func (r *LeadRepository) ListByOwner(ownerID string) ([]model.Lead, error) {
    query := `SELECT ` + leadColumns + ` FROM leads WHERE owner_id=$1 AND deleted_at IS NULL ORDER BY id`
    rows, err := r.DB.Query(query, ownerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    leads := []model.Lead{}
    for rows.Next() {
        l, err := scanLead(rows)
        if err != nil {
            return nil, err
        }
        leads = append(leads, *l)
    }
    return leads, rows.Err()
}

func (r *LeadRepository) Create(l *model.Lead) error {
    l.CreatedAt = time.Now()
    if l.LeadStatus == "" {
        l.LeadStatus = "new"
    }
    query := `
        INSERT INTO leads (owner_id, name, dob, g_code, pancard, aadhar_card,
            mobile_number, email, vertical, product_type, lead_status, priority,
            follow_up_date, notes, sheet_row_number, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING id
    `
    return r.DB.QueryRow(query,
        l.OwnerID, l.Name, l.DOB, l.GCode, l.Pancard, l.AadharCard,
        l.MobileNumber, l.Email, l.Vertical, l.ProductType, l.LeadStatus, l.Priority,
        l.FollowUpDate, l.Notes, l.SheetRowNumber, l.CreatedAt,
    ).Scan(&l.ID)
}

func (r *LeadRepository) Update(l *model.Lead) error {
    query := `
        UPDATE leads
        SET name=$1, dob=$2, g_code=$3, pancard=$4, aadhar_card=$5,
            mobile_number=$6, email=$7, vertical=$8, product_type=$9,
            lead_status=$10, priority=$11, follow_up_date=$12, notes=$13,
            sheet_row_number=$14, updated_at=NOW()
        WHERE id=$15 AND owner_id=$16
    `
    _, err := r.DB.Exec(query,
        l.Name, l.DOB, l.GCode, l.Pancard, l.AadharCard,
        l.MobileNumber, l.Email, l.Vertical, l.ProductType,
        l.LeadStatus, l.Priority, l.FollowUpDate, l.Notes,
        l.SheetRowNumber, l.ID, l.OwnerID,
    )
    return err
}

func (r *LeadRepository) UpdateSheetRow(id, row int) error {
    query := `UPDATE leads SET sheet_row_number=$1, updated_at=NOW() WHERE id=$2`
    _, err := r.DB.Exec(query, row, id)
    return err
}

func (r *LeadRepository) MarkDeleted(ownerID string, id int) error {
    query := `UPDATE leads SET deleted_at=NOW() WHERE owner_id=$1 AND id=$2 AND deleted_at IS NULL`
    _, err := r.DB.Exec(query, ownerID, id)
    return err
}

func (r *LeadRepository) ListTombstones(ownerID string) ([]model.DeletedRecord, error) {
    rows, err := r.DB.Query(
        `SELECT id, sheet_row_number FROM leads WHERE owner_id=$1 AND deleted_at IS NOT NULL`,
        ownerID,
    )
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    tombstones := []model.DeletedRecord{}
    for rows.Next() {
        var t model.DeletedRecord
        if err := rows.Scan(&t.ID, &t.SheetRowNumber); err != nil {
            return nil, err
        }
        tombstones = append(tombstones, t)
    }
    return tombstones, rows.Err()
}

func (r *LeadRepository) PurgeTombstones(ownerID string, ids []int) error {
    if len(ids) == 0 {
        return nil
    }
    _, err := r.DB.Exec(
        `DELETE FROM leads WHERE owner_id=$1 AND id=ANY($2) AND deleted_at IS NOT NULL`,
        ownerID, pq.Array(ids),
    )
    return err
}

func (r *LeadRepository) UpsertBySheetRow(l *model.Lead) (bool, error) {
    if l.SheetRowNumber == nil {
        return true, r.Create(l)
    }

    ids, err := r.IDsBySheetRow(l.OwnerID, *l.SheetRowNumber)
    if err != nil {
        return false, err
    }
    if len(ids) == 0 {
        return true, r.Create(l)
    }

    l.ID = ids[0]
    return false, r.Update(l)
}

var _ LeadRepositoryInterface = (*LeadRepository)(nil)
