// internal/service/customer_service.go
package service

import (
    "github.com/agencydesk/agencydesk-backend/internal/dedup"
    appErrors "github.com/agencydesk/agencydesk-backend/internal/errors"
    "github.com/agencydesk/agencydesk-backend/internal/model"
    "github.com/agencydesk/agencydesk-backend/internal/repository"
)

// CustomerPayload is the write shape consumed by create and update.
// SheetRowNumber doubles as the correlation key for stale-id healing.
type CustomerPayload struct {
    Name           string  `json:"name"`
    DOB            string  `json:"dob"`
    GCode          string  `json:"g_code"`
    Pancard        string  `json:"pancard"`
    AadharCard     string  `json:"aadhar_card"`
    MobileNumber   string  `json:"mobile_number"`
    Email          string  `json:"email"`
    Vertical       string  `json:"vertical"`
    ProductType    string  `json:"product_type"`
    Premium        float64 `json:"premium"`
    RenewalDate    string  `json:"renewal_date"`
    Status         string  `json:"status"`
    Notes          string  `json:"notes"`
    SheetRowNumber *int    `json:"sheet_row_number"`
}

// DuplicateConflict pairs the detector's best match with the record it
// matched, for the 409 response body.
type DuplicateConflict struct {
    Existing model.Customer `json:"existing"`
    Match    dedup.Match    `json:"match"`
}

type CustomerService struct {
    Repo   repository.CustomerRepositoryInterface
    Healer *Healer
}

func (p *CustomerPayload) identity() dedup.Identity {
    return dedup.Identity{
        Name:       p.Name,
        DOB:        p.DOB,
        GCode:      p.GCode,
        Pancard:    p.Pancard,
        AadharCard: p.AadharCard,
    }
}

func customerIdentity(c *model.Customer) dedup.Identity {
    return dedup.Identity{
        Name:       c.Name,
        DOB:        c.DOB,
        GCode:      c.GCode,
        Pancard:    c.Pancard,
        AadharCard: c.AadharCard,
    }
}

func (p *CustomerPayload) apply(c *model.Customer) {
    c.Name = p.Name
    c.DOB = p.DOB
    c.GCode = p.GCode
    c.Pancard = p.Pancard
    c.AadharCard = p.AadharCard
    c.MobileNumber = p.MobileNumber
    c.Email = p.Email
    c.Vertical = p.Vertical
    c.ProductType = p.ProductType
    c.Premium = p.Premium
    c.RenewalDate = p.RenewalDate
    c.Status = p.Status
    c.Notes = p.Notes
    if p.SheetRowNumber != nil {
        c.SheetRowNumber = p.SheetRowNumber
    }
}

// Create validates the payload, checks it against the owner's existing
// customers for near-duplicates and inserts it. A detected duplicate is
// returned as a conflict instead of being silently accepted; force
// overrides the check.
func (s *CustomerService) Create(ownerID string, p CustomerPayload, force bool) (*model.Customer, *DuplicateConflict, error) {
    missing := []string{}
    if p.Name == "" {
        missing = append(missing, "name")
    }
    if p.MobileNumber == "" {
        missing = append(missing, "mobile_number")
    }
    if len(missing) > 0 {
        return nil, nil, appErrors.NewValidation(missing...)
    }

    if !force {
        existing, err := s.Repo.ListByOwner(ownerID, "")
        if err != nil {
            return nil, nil, err
        }
        identities := make([]dedup.Identity, len(existing))
        for i := range existing {
            identities[i] = customerIdentity(&existing[i])
        }
        if res := dedup.Detect(p.identity(), identities); res.IsDuplicate {
            return nil, &DuplicateConflict{
                Existing: existing[res.Match.Index],
                Match:    *res.Match,
            }, nil
        }
    }

    c := &model.Customer{OwnerID: ownerID}
    p.apply(c)
    if err := s.Repo.Create(c); err != nil {
        return nil, nil, err
    }
    return c, nil, nil
}

// Update mutates the record addressed by id, healing the id through the
// sheet row number when the cached id has gone stale.
//
// Ordinary updates deliberately do not take the owner sync lock, so a
// concurrent from-sheet import can overwrite this write. Known race,
// accepted: the sheet wins.
func (s *CustomerService) Update(ownerID string, id int, p CustomerPayload) (*model.Customer, *HealOutcome, error) {
    outcome, err := s.Healer.Resolve(s.Repo, "customer", ownerID, id, p.SheetRowNumber, "customer update")
    if err != nil {
        return nil, nil, err
    }

    c, err := s.Repo.GetByID(ownerID, outcome.ID)
    if err != nil {
        return nil, nil, err
    }
    if c == nil {
        return nil, nil, appErrors.NewRecordNotFound("customer", id)
    }

    p.apply(c)
    if err := s.Repo.Update(c); err != nil {
        return nil, nil, err
    }
    return c, outcome, nil
}

// Delete tombstones the record (healing the id first) so the next
// to-sheet push removes the external row.
func (s *CustomerService) Delete(ownerID string, id int, sheetRow *int) (*HealOutcome, error) {
    outcome, err := s.Healer.Resolve(s.Repo, "customer", ownerID, id, sheetRow, "customer delete")
    if err != nil {
        return nil, err
    }
    if err := s.Repo.MarkDeleted(ownerID, outcome.ID); err != nil {
        return nil, err
    }
    return outcome, nil
}

func (s *CustomerService) List(ownerID, vertical string) ([]model.Customer, error) {
    return s.Repo.ListByOwner(ownerID, vertical)
}

func (s *CustomerService) Get(ownerID string, id int) (*model.Customer, error) {
    c, err := s.Repo.GetByID(ownerID, id)
    if err != nil {
        return nil, err
    }
    if c == nil {
        return nil, appErrors.NewRecordNotFound("customer", id)
    }
    return c, nil
}
