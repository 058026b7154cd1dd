// internal/service/sync_service.go
package service

import (
    "fmt"
    "log"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/agencydesk/agencydesk-backend/internal/lock"
    "github.com/agencydesk/agencydesk-backend/internal/model"
    "github.com/agencydesk/agencydesk-backend/internal/queue"
    "github.com/agencydesk/agencydesk-backend/internal/sheets"
)

// LeadsTab is the tab holding leads; every other tab addresses
// customers whose vertical matches the tab name.
const LeadsTab = "Leads"

// SyncEvent is published on the sync_events topic at each job
// transition.
type SyncEvent struct {
    JobID     string    `json:"job_id"`
    OwnerID   string    `json:"owner_id"`
    Direction string    `json:"direction"`
    TabName   string    `json:"tab_name"`
    Status    string    `json:"status"`
    Error     string    `json:"error,omitempty"`
    At        time.Time `json:"at"`
}

type ownerStatus struct {
    isProcessing        bool
    fromSheetProcessing bool
}

// SyncService is the asynchronous sync job processor. Submission never
// blocks on spreadsheet I/O: each job runs on its own goroutine,
// serialized per owner through the FIFO owner lock. Two owners' jobs
// run fully in parallel since their record sets are disjoint.
type SyncService struct {
    CustomerRepo repositoryCustomer
    LeadRepo     repositoryLead
    Sheets       sheets.Client
    Locks        *lock.OwnerLocks
    Events       queue.Queue // optional, may be nil

    mu     sync.Mutex
    status map[string]*ownerStatus
    jobs   map[string]*model.SyncJob
}

// Narrow views of the repositories, so tests can stub just what the
// processor touches.
type repositoryCustomer interface {
    ListByOwner(ownerID, vertical string) ([]model.Customer, error)
    ListTombstones(ownerID, vertical string) ([]model.DeletedRecord, error)
    PurgeTombstones(ownerID string, ids []int) error
    UpdateSheetRow(id, row int) error
    UpsertBySheetRow(c *model.Customer) (bool, error)
}

type repositoryLead interface {
    ListByOwner(ownerID string) ([]model.Lead, error)
    ListTombstones(ownerID string) ([]model.DeletedRecord, error)
    PurgeTombstones(ownerID string, ids []int) error
    UpdateSheetRow(id, row int) error
    UpsertBySheetRow(l *model.Lead) (bool, error)
}

func NewSyncService(customers repositoryCustomer, leads repositoryLead, client sheets.Client, locks *lock.OwnerLocks, events queue.Queue) *SyncService {
    return &SyncService{
        CustomerRepo: customers,
        LeadRepo:     leads,
        Sheets:       client,
        Locks:        locks,
        Events:       events,
        status:       make(map[string]*ownerStatus),
        jobs:         make(map[string]*model.SyncJob),
    }
}

// QueueToSheet accepts a push job and returns immediately. The deleted
// list from the request is merged with locally stored tombstones.
func (s *SyncService) QueueToSheet(ownerID, tabName string, deleted []model.DeletedRecord) (*model.SyncJob, error) {
    if tabName == "" {
        return nil, fmt.Errorf("tab_name is required")
    }
    job := s.newJob(ownerID, model.SyncToSheet, tabName)
    go s.run(job, deleted)
    return job, nil
}

// QueueFromSheet accepts a pull job and returns immediately.
func (s *SyncService) QueueFromSheet(ownerID, tabName string) (*model.SyncJob, error) {
    if tabName == "" {
        return nil, fmt.Errorf("tab_name is required")
    }
    job := s.newJob(ownerID, model.SyncFromSheet, tabName)
    go s.run(job, nil)
    return job, nil
}

func (s *SyncService) newJob(ownerID, direction, tabName string) *model.SyncJob {
    job := &model.SyncJob{
        ID:        uuid.NewString(),
        OwnerID:   ownerID,
        Direction: direction,
        TabName:   tabName,
        Status:    model.JobQueued,
        QueuedAt:  time.Now(),
    }
    s.mu.Lock()
    s.jobs[job.ID] = job
    if s.status[ownerID] == nil {
        s.status[ownerID] = &ownerStatus{}
    }
    s.mu.Unlock()

    s.publish(job)
    return job
}

// run executes one job. The owner lock is released on every path; a
// leaked hold would freeze that owner's queue forever.
func (s *SyncService) run(job *model.SyncJob, deleted []model.DeletedRecord) {
    release := s.Locks.Acquire(job.OwnerID)
    defer release()

    s.setJobStatus(job, model.JobProcessing)
    defer s.clearProcessing(job.OwnerID)

    var result *model.SyncResult
    var err error
    if job.Direction == model.SyncToSheet {
        result, err = s.pushToSheet(job, deleted)
    } else {
        result, err = s.pullFromSheet(job)
    }

    now := time.Now()
    s.mu.Lock()
    job.FinishedAt = &now
    if err != nil {
        // no auto-retry: the failure stays on the job record until a
        // new job is submitted explicitly
        job.Status = model.JobFailed
        job.Error = err.Error()
    } else {
        job.Status = model.JobDone
        job.Result = result
    }
    s.mu.Unlock()

    if err != nil {
        log.Printf("⚠️ sync job %s failed (%s %s): %v", job.ID, job.Direction, job.TabName, err)
    } else {
        log.Printf("✅ sync job %s done (%s %s)", job.ID, job.Direction, job.TabName)
    }
    s.publish(job)
}

func (s *SyncService) setJobStatus(job *model.SyncJob, status string) {
    now := time.Now()
    s.mu.Lock()
    job.Status = status
    job.StartedAt = &now
    st := s.status[job.OwnerID]
    st.isProcessing = true
    st.fromSheetProcessing = job.Direction == model.SyncFromSheet
    s.mu.Unlock()

    s.publish(job)
}

func (s *SyncService) clearProcessing(ownerID string) {
    s.mu.Lock()
    st := s.status[ownerID]
    st.isProcessing = false
    st.fromSheetProcessing = false
    s.mu.Unlock()
}

func (s *SyncService) publish(job *model.SyncJob) {
    if s.Events == nil {
        return
    }
    s.mu.Lock()
    ev := SyncEvent{
        JobID:     job.ID,
        OwnerID:   job.OwnerID,
        Direction: job.Direction,
        TabName:   job.TabName,
        Status:    job.Status,
        Error:     job.Error,
        At:        time.Now(),
    }
    s.mu.Unlock()
    if err := s.Events.Publish("sync_events", ev); err != nil {
        log.Println("⚠️ failed to publish sync event:", err)
    }
}

// Status is the per-owner poll surface. The processing flag going false
// is the sole authoritative completion signal for pollers; the status
// record itself needs no lock beyond this map guard since it is
// read-mostly and eventually consistent.
func (s *SyncService) Status(ownerID string) model.SyncStatus {
    s.mu.Lock()
    st := s.status[ownerID]
    var out model.SyncStatus
    if st != nil {
        out.IsProcessing = st.isProcessing
        out.FromSheetProcessing = st.fromSheetProcessing
    }
    s.mu.Unlock()

    out.QueueLength = s.Locks.QueueLength(ownerID)
    return out
}

// GetJob returns a copy of the job record, or nil when unknown.
func (s *SyncService) GetJob(id string) *model.SyncJob {
    s.mu.Lock()
    defer s.mu.Unlock()
    job := s.jobs[id]
    if job == nil {
        return nil
    }
    cp := *job
    return &cp
}

// ====================== to-sheet push ======================

func (s *SyncService) pushToSheet(job *model.SyncJob, requestDeleted []model.DeletedRecord) (*model.SyncResult, error) {
    if job.TabName == LeadsTab {
        return s.pushLeads(job, requestDeleted)
    }
    return s.pushCustomers(job, requestDeleted)
}

func (s *SyncService) pushCustomers(job *model.SyncJob, requestDeleted []model.DeletedRecord) (*model.SyncResult, error) {
    customers, err := s.CustomerRepo.ListByOwner(job.OwnerID, job.TabName)
    if err != nil {
        return nil, err
    }

    rows := make([]sheets.PushRow, 0, len(customers))
    for i := range customers {
        rows = append(rows, customerPushRow(&customers[i]))
    }

    res, err := s.Sheets.WriteRows(job.TabName, rows)
    if err != nil {
        return nil, err
    }
    for id, row := range res.Assignments {
        if err := s.CustomerRepo.UpdateSheetRow(id, row); err != nil {
            return nil, err
        }
    }

    local, err := s.CustomerRepo.ListTombstones(job.OwnerID, job.TabName)
    if err != nil {
        return nil, err
    }
    tombstones := mergeTombstones(local, requestDeleted)

    deletedCount, err := s.deleteRows(job.TabName, tombstones)
    if err != nil {
        return nil, err
    }
    if err := s.CustomerRepo.PurgeTombstones(job.OwnerID, tombstoneIDs(local)); err != nil {
        return nil, err
    }

    return &model.SyncResult{Added: res.Added, Updated: res.Updated, Deleted: deletedCount}, nil
}

func (s *SyncService) pushLeads(job *model.SyncJob, requestDeleted []model.DeletedRecord) (*model.SyncResult, error) {
    leads, err := s.LeadRepo.ListByOwner(job.OwnerID)
    if err != nil {
        return nil, err
    }

    rows := make([]sheets.PushRow, 0, len(leads))
    for i := range leads {
        rows = append(rows, leadPushRow(&leads[i]))
    }

    res, err := s.Sheets.WriteRows(job.TabName, rows)
    if err != nil {
        return nil, err
    }
    for id, row := range res.Assignments {
        if err := s.LeadRepo.UpdateSheetRow(id, row); err != nil {
            return nil, err
        }
    }

    local, err := s.LeadRepo.ListTombstones(job.OwnerID)
    if err != nil {
        return nil, err
    }
    tombstones := mergeTombstones(local, requestDeleted)

    deletedCount, err := s.deleteRows(job.TabName, tombstones)
    if err != nil {
        return nil, err
    }
    if err := s.LeadRepo.PurgeTombstones(job.OwnerID, tombstoneIDs(local)); err != nil {
        return nil, err
    }

    return &model.SyncResult{Added: res.Added, Updated: res.Updated, Deleted: deletedCount}, nil
}

func (s *SyncService) deleteRows(tab string, tombstones []model.DeletedRecord) (int, error) {
    rowNumbers := []int{}
    for _, t := range tombstones {
        if t.SheetRowNumber != nil {
            rowNumbers = append(rowNumbers, *t.SheetRowNumber)
        }
    }
    if len(rowNumbers) == 0 {
        return 0, nil
    }
    return s.Sheets.DeleteRows(tab, rowNumbers)
}

func mergeTombstones(local, request []model.DeletedRecord) []model.DeletedRecord {
    seen := map[int]bool{}
    merged := []model.DeletedRecord{}
    for _, t := range local {
        seen[t.ID] = true
        merged = append(merged, t)
    }
    for _, t := range request {
        if !seen[t.ID] {
            merged = append(merged, t)
        }
    }
    return merged
}

func tombstoneIDs(tombstones []model.DeletedRecord) []int {
    ids := make([]int, 0, len(tombstones))
    for _, t := range tombstones {
        ids = append(ids, t.ID)
    }
    return ids
}

// ====================== from-sheet pull ======================

// pullFromSheet reads the whole tab and reconciles it into the local
// store: rows matched by sheet_row_number are fully overwritten, the
// rest are inserted. The sheet wins every conflict by design.
func (s *SyncService) pullFromSheet(job *model.SyncJob) (*model.SyncResult, error) {
    rows, err := s.Sheets.ReadRows(job.TabName)
    if err != nil {
        return nil, err
    }

    imported := 0
    if job.TabName == LeadsTab {
        for _, row := range rows {
            l := leadFromRow(job.OwnerID, row)
            if _, err := s.LeadRepo.UpsertBySheetRow(l); err != nil {
                return nil, err
            }
            imported++
        }
    } else {
        for _, row := range rows {
            c := customerFromRow(job.OwnerID, job.TabName, row)
            if _, err := s.CustomerRepo.UpsertBySheetRow(c); err != nil {
                return nil, err
            }
            imported++
        }
    }

    return &model.SyncResult{Imported: imported}, nil
}
