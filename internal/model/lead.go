// internal/model/lead.go
package model

import "time"

// Lead is a prospect record. It has its own id space but the same
// reconciliation shape as Customer: a cached numeric ID plus the
// sheet row number as correlation key.
type Lead struct {
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
    LeadStatus     string     `db:"lead_status" json:"lead_status"`
    Priority       string     `db:"priority" json:"priority"`
    FollowUpDate   string     `db:"follow_up_date" json:"follow_up_date"`
    Notes          string     `db:"notes" json:"notes"`
    SheetRowNumber *int       `db:"sheet_row_number" json:"sheet_row_number,omitempty"`
    DeletedAt      *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
    CreatedAt      time.Time  `db:"created_at" json:"created_at"`
    UpdatedAt      *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
