// internal/model/customer.go
package model

import "time"

// Customer is a policy-holder record mirrored into the owner's spreadsheet.
// ID is a locally cached identifier that can go stale whenever rows are
// inserted or deleted in the sheet; SheetRowNumber is the correlation key
// back to the authoritative external row.
type Customer struct {
    ID             int        `db:"id" json:"id"`
    OwnerID        string     `db:"owner_id" json:"owner_id"`
    Name           string     `db:"name" json:"name"`
    DOB            string     `db:"dob" json:"dob"`
    GCode          string     `db:"g_code" json:"g_code"`
    Pancard        string     `db:"pancard" json:"pancard"`
    AadharCard     string     `db:"aadhar_card" json:"aadhar_card"`
    MobileNumber   string     `db:"mobile_number" json:"mobile_number"`
    Email          string     `db:"email" json:"email"`
    Vertical       string     `db:"vertical" json:"vertical"`
    ProductType    string     `db:"product_type" json:"product_type"`
    Premium        float64    `db:"premium" json:"premium"`
    RenewalDate    string     `db:"renewal_date" json:"renewal_date"`
    Status         string     `db:"status" json:"status"`
    Notes          string     `db:"notes" json:"notes"`
    SheetRowNumber *int       `db:"sheet_row_number" json:"sheet_row_number,omitempty"`
    DeletedAt      *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
    CreatedAt      time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt      *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
