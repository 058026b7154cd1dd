// internal/service/lead_service.go
package service

import (
    "github.com/agencydesk/agencydesk-backend/internal/dedup"
    appErrors "github.com/agencydesk/agencydesk-backend/internal/errors"
    "github.com/agencydesk/agencydesk-backend/internal/model"
    "github.com/agencydesk/agencydesk-backend/internal/repository"
)

// LeadPayload is the write shape for leads. Same reconciliation shape
// as customers, own id space.
type LeadPayload struct {
    Name           string `json:"name"`
    DOB            string `json:"dob"`
    GCode          string `json:"g_code"`
    Pancard        string `json:"pancard"`
    AadharCard     string `json:"aadhar_card"`
    MobileNumber   string `json:"mobile_number"`
    Email          string `json:"email"`
    Vertical       string `json:"vertical"`
    ProductType    string `json:"product_type"`
    LeadStatus     string `json:"lead_status"`
    Priority       string `json:"priority"`
    FollowUpDate   string `json:"follow_up_date"`
    Notes          string `json:"notes"`
    SheetRowNumber *int   `json:"sheet_row_number"`
}

type LeadConflict struct {
    Existing model.Lead  `json:"existing"`
    Match    dedup.Match `json:"match"`
}

type LeadService struct {
    Repo   repository.LeadRepositoryInterface
    Healer *Healer
}

func (p *LeadPayload) identity() dedup.Identity {
    return dedup.Identity{
        Name:       p.Name,
        DOB:        p.DOB,
        GCode:      p.GCode,
        Pancard:    p.Pancard,
        AadharCard: p.AadharCard,
    }
}

func leadIdentity(l *model.Lead) dedup.Identity {
    return dedup.Identity{
        Name:       l.Name,
        DOB:        l.DOB,
        GCode:      l.GCode,
        Pancard:    l.Pancard,
        AadharCard: l.AadharCard,
    }
}

func (p *LeadPayload) apply(l *model.Lead) {
    l.Name = p.Name
    l.DOB = p.DOB
    l.GCode = p.GCode
    l.Pancard = p.Pancard
    l.AadharCard = p.AadharCard
    l.MobileNumber = p.MobileNumber
    l.Email = p.Email
    l.Vertical = p.Vertical
    l.ProductType = p.ProductType
    l.LeadStatus = p.LeadStatus
    l.Priority = p.Priority
    l.FollowUpDate = p.FollowUpDate
    l.Notes = p.Notes
    if p.SheetRowNumber != nil {
        l.SheetRowNumber = p.SheetRowNumber
    }
}

func (s *LeadService) Create(ownerID string, p LeadPayload, force bool) (*model.Lead, *LeadConflict, error) {
    if p.Name == "" {
        return nil, nil, appErrors.NewValidation("name")
    }

    if !force {
        existing, err := s.Repo.ListByOwner(ownerID)
        if err != nil {
            return nil, nil, err
        }
        identities := make([]dedup.Identity, len(existing))
        for i := range existing {
            identities[i] = leadIdentity(&existing[i])
        }
        if res := dedup.Detect(p.identity(), identities); res.IsDuplicate {
            return nil, &LeadConflict{
                Existing: existing[res.Match.Index],
                Match:    *res.Match,
            }, nil
        }
    }

    l := &model.Lead{OwnerID: ownerID}
    p.apply(l)
    if err := s.Repo.Create(l); err != nil {
        return nil, nil, err
    }
    return l, nil, nil
}

func (s *LeadService) Update(ownerID string, id int, p LeadPayload) (*model.Lead, *HealOutcome, error) {
    outcome, err := s.Healer.Resolve(s.Repo, "lead", ownerID, id, p.SheetRowNumber, "lead update")
    if err != nil {
        return nil, nil, err
    }

    l, err := s.Repo.GetByID(ownerID, outcome.ID)
    if err != nil {
        return nil, nil, err
    }
    if l == nil {
        return nil, nil, appErrors.NewRecordNotFound("lead", id)
    }

    p.apply(l)
    if err := s.Repo.Update(l); err != nil {
        return nil, nil, err
    }
    return l, outcome, nil
}

func (s *LeadService) Delete(ownerID string, id int, sheetRow *int) (*HealOutcome, error) {
    outcome, err := s.Healer.Resolve(s.Repo, "lead", ownerID, id, sheetRow, "lead delete")
    if err != nil {
        return nil, err
    }
    if err := s.Repo.MarkDeleted(ownerID, outcome.ID); err != nil {
        return nil, err
    }
    return outcome, nil
}

func (s *LeadService) List(ownerID string) ([]model.Lead, error) {
    return s.Repo.ListByOwner(ownerID)
}

func (s *LeadService) Get(ownerID string, id int) (*model.Lead, error) {
    l, err := s.Repo.GetByID(ownerID, id)
    if err != nil {
        return nil, err
    }
    if l == nil {
        return nil, appErrors.NewRecordNotFound("lead", id)
    }
    return l, nil
}
