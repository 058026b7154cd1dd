// internal/service/sheet_rows.go
package service

import (
    "strconv"

    "github.com/agencydesk/agencydesk-backend/internal/model"
    "github.com/agencydesk/agencydesk-backend/internal/sheets"
)

// Column names in the sheet match the API payload field names, which is
// what keeps manual edits reconcilable.

func customerPushRow(c *model.Customer) sheets.PushRow {
    row := sheets.PushRow{
        RecordID: c.ID,
        Fields: map[string]string{
            "name":          c.Name,
            "dob":           c.DOB,
            "g_code":        c.GCode,
            "pancard":       c.Pancard,
            "aadhar_card":   c.AadharCard,
            "mobile_number": c.MobileNumber,
            "email":         c.Email,
            "vertical":      c.Vertical,
            "product_type":  c.ProductType,
            "premium":       strconv.FormatFloat(c.Premium, 'f', -1, 64),
            "renewal_date":  c.RenewalDate,
            "status":        c.Status,
            "notes":         c.Notes,
        },
    }
    if c.SheetRowNumber != nil {
        row.RowNumber = *c.SheetRowNumber
    }
    return row
}

func customerFromRow(ownerID, vertical string, row sheets.Row) *model.Customer {
    f := row.Fields
    premium, _ := strconv.ParseFloat(f["premium"], 64)
    rowNum := row.RowNumber
    c := &model.Customer{
        OwnerID:        ownerID,
        Name:           f["name"],
        DOB:            f["dob"],
        GCode:          f["g_code"],
        Pancard:        f["pancard"],
        AadharCard:     f["aadhar_card"],
        MobileNumber:   f["mobile_number"],
        Email:          f["email"],
        Vertical:       vertical,
        ProductType:    f["product_type"],
        Premium:        premium,
        RenewalDate:    f["renewal_date"],
        Status:         f["status"],
        Notes:          f["notes"],
        SheetRowNumber: &rowNum,
    }
    if v := f["vertical"]; v != "" {
        c.Vertical = v
    }
    return c
}

func leadPushRow(l *model.Lead) sheets.PushRow {
    row := sheets.PushRow{
        RecordID: l.ID,
        Fields: map[string]string{
            "name":           l.Name,
            "dob":            l.DOB,
            "g_code":         l.GCode,
            "pancard":        l.Pancard,
            "aadhar_card":    l.AadharCard,
            "mobile_number":  l.MobileNumber,
            "email":          l.Email,
            "vertical":       l.Vertical,
            "product_type":   l.ProductType,
            "lead_status":    l.LeadStatus,
            "priority":       l.Priority,
            "follow_up_date": l.FollowUpDate,
            "notes":          l.Notes,
        },
    }
    if l.SheetRowNumber != nil {
        row.RowNumber = *l.SheetRowNumber
    }
    return row
}

func leadFromRow(ownerID string, row sheets.Row) *model.Lead {
    f := row.Fields
    rowNum := row.RowNumber
    return &model.Lead{
        OwnerID:        ownerID,
        Name:           f["name"],
        DOB:            f["dob"],
        GCode:          f["g_code"],
        Pancard:        f["pancard"],
        AadharCard:     f["aadhar_card"],
        MobileNumber:   f["mobile_number"],
        Email:          f["email"],
        Vertical:       f["vertical"],
        ProductType:    f["product_type"],
        LeadStatus:     f["lead_status"],
        Priority:       f["priority"],
        FollowUpDate:   f["follow_up_date"],
        Notes:          f["notes"],
        SheetRowNumber: &rowNum,
    }
}
