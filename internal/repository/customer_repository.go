package repository

import (
    "database/sql"
    "time"

    "github.com/lib/pq"

    "github.com/agencydesk/agencydesk-backend/internal/model"
)

// CustomerRepositoryInterface defines methods used by the services
type CustomerRepositoryInterface interface {
    GetByID(ownerID string, id int) (*model.Customer, error)
    ExistsByID(ownerID string, id int) (bool, error)
    IDsBySheetRow(ownerID string, row int) ([]int, error)
    ListByOwner(ownerID, vertical string) ([]model.Customer, error)
    Create(c *model.Customer) error
    Update(c *model.Customer) error
    UpdateSheetRow(id, row int) error
    MarkDeleted(ownerID string, id int) error
    ListTombstones(ownerID, vertical string) ([]model.DeletedRecord, error)
    PurgeTombstones(ownerID string, ids []int) error
    UpsertBySheetRow(c *model.Customer) (bool, error)
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
    DB *sql.DB
}

const customerColumns = `id, owner_id, name, dob, g_code, pancard, aadhar_card,
        mobile_number, email, vertical, product_type, premium, renewal_date,
        status, notes, sheet_row_number, deleted_at, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (*model.Customer, error) {
    var c model.Customer
    err := row.Scan(
        &c.ID, &c.OwnerID, &c.Name, &c.DOB, &c.GCode, &c.Pancard, &c.AadharCard,
        &c.MobileNumber, &c.Email, &c.Vertical, &c.ProductType, &c.Premium, &c.RenewalDate,
        &c.Status, &c.Notes, &c.SheetRowNumber, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &c, nil
}

// GetByID fetches a live (non-tombstoned) customer scoped to the owner
func (r *CustomerRepository) GetByID(ownerID string, id int) (*model.Customer, error) {
    query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE owner_id=$1 AND id=$2 AND deleted_at IS NULL
    `
    c, err := scanCustomer(r.DB.QueryRow(query, ownerID, id))
    if err == sql.ErrNoRows {
        return nil, nil // not found
    }
    return c, err
}

func (r *CustomerRepository) ExistsByID(ownerID string, id int) (bool, error) {
    var count int
    err := r.DB.QueryRow(`
        SELECT COUNT(*)
        FROM customers
        WHERE owner_id=$1 AND id=$2 AND deleted_at IS NULL`, ownerID, id).Scan(&count)
    if err != nil {
        return false, err
    }
    return count > 0, nil
}

// IDsBySheetRow returns every live id carrying the given sheet row
// number. The healer requires exactly one result before substituting.
func (r *CustomerRepository) IDsBySheetRow(ownerID string, row int) ([]int, error) {
    rows, err := r.DB.Query(`
        SELECT id FROM customers
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

// ListByOwner fetches the owner's live customers, optionally filtered
// by vertical (the sheet tab)
func (r *CustomerRepository) ListByOwner(ownerID, vertical string) ([]model.Customer, error) {
    query := `SELECT ` + customerColumns + ` FROM customers WHERE owner_id=$1 AND deleted_at IS NULL`
    args := []interface{}{ownerID}
    if vertical != "" {
        query += " AND vertical=$2"
        args = append(args, vertical)
    }
    query += " ORDER BY id"

    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    customers := []model.Customer{}
    for rows.Next() {
        c, err := scanCustomer(rows)
        if err != nil {
            return nil, err
        }
        customers = append(customers, *c)
    }
    return customers, rows.Err()
}

func (r *CustomerRepository) Create(c *model.Customer) error {
    c.CreatedAt = time.Now()
    if c.Status == "" {
        c.Status = "active"
    }
    query := `
        INSERT INTO customers (owner_id, name, dob, g_code, pancard, aadhar_card,
            mobile_number, email, vertical, product_type, premium, renewal_date,
            status, notes, sheet_row_number, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING id
    `
    return r.DB.QueryRow(query,
        c.OwnerID, c.Name, c.DOB, c.GCode, c.Pancard, c.AadharCard,
        c.MobileNumber, c.Email, c.Vertical, c.ProductType, c.Premium, c.RenewalDate,
        c.Status, c.Notes, c.SheetRowNumber, c.CreatedAt,
    ).Scan(&c.ID)
}

func (r *CustomerRepository) Update(c *model.Customer) error {
    query := `
        UPDATE customers
        SET name=$1, dob=$2, g_code=$3, pancard=$4, aadhar_card=$5,
            mobile_number=$6, email=$7, vertical=$8, product_type=$9,
            premium=$10, renewal_date=$11, status=$12, notes=$13,
            sheet_row_number=$14, updated_at=NOW()
        WHERE id=$15 AND owner_id=$16
    `
    _, err := r.DB.Exec(query,
        c.Name, c.DOB, c.GCode, c.Pancard, c.AadharCard,
        c.MobileNumber, c.Email, c.Vertical, c.ProductType,
        c.Premium, c.RenewalDate, c.Status, c.Notes,
        c.SheetRowNumber, c.ID, c.OwnerID,
    )
    return err
}

func (r *CustomerRepository) UpdateSheetRow(id, row int) error {
    query := `UPDATE customers SET sheet_row_number=$1, updated_at=NOW() WHERE id=$2`
    _, err := r.DB.Exec(query, row, id)
    return err
}

// MarkDeleted tombstones the record so the next to-sheet push removes
// its external row
func (r *CustomerRepository) MarkDeleted(ownerID string, id int) error {
    query := `UPDATE customers SET deleted_at=NOW() WHERE owner_id=$1 AND id=$2 AND deleted_at IS NULL`
    _, err := r.DB.Exec(query, ownerID, id)
    return err
}

func (r *CustomerRepository) ListTombstones(ownerID, vertical string) ([]model.DeletedRecord, error) {
    query := `SELECT id, sheet_row_number FROM customers WHERE owner_id=$1 AND deleted_at IS NOT NULL`
    args := []interface{}{ownerID}
    if vertical != "" {
        query += " AND vertical=$2"
        args = append(args, vertical)
    }

    rows, err := r.DB.Query(query, args...)
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

// PurgeTombstones hard-deletes tombstones whose external rows were
// confirmed removed
func (r *CustomerRepository) PurgeTombstones(ownerID string, ids []int) error {
    if len(ids) == 0 {
        return nil
    }
    _, err := r.DB.Exec(
        `DELETE FROM customers WHERE owner_id=$1 AND id=ANY($2) AND deleted_at IS NOT NULL`,
        ownerID, pq.Array(ids),
    )
    return err
}

// UpsertBySheetRow reconciles one imported sheet row: overwrite the
// matched local record, or insert when no local record carries the row
// number. Returns true when a new record was inserted.
func (r *CustomerRepository) UpsertBySheetRow(c *model.Customer) (bool, error) {
    if c.SheetRowNumber == nil {
        created := true
        return created, r.Create(c)
    }

    ids, err := r.IDsBySheetRow(c.OwnerID, *c.SheetRowNumber)
    if err != nil {
        return false, err
    }
    if len(ids) == 0 {
        return true, r.Create(c)
    }

    // full overwrite of the first match; the sheet is the system of record
    c.ID = ids[0]
    return false, r.Update(c)
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
