// internal/model/sync_job.go
package model

import "time"

// Sync job directions.
const (
    SyncToSheet   = "to_sheet"
    SyncFromSheet = "from_sheet"
)

// Sync job statuses.
const (
    JobQueued     = "queued"
    JobProcessing = "processing"
    JobDone       = "done"
    JobFailed     = "failed"
)

// SyncJob tracks one bulk synchronization request for a single owner
// and a single spreadsheet tab.
type SyncJob struct {
    ID         string      `json:"id"`
    OwnerID    string      `json:"owner_id"`
    Direction  string      `json:"direction"`
    TabName    string      `json:"tab_name"`
    Status     string      `json:"status"`
    Result     *SyncResult `json:"result,omitempty"`
    Error      string      `json:"error,omitempty"`
    QueuedAt   time.Time   `json:"queued_at"`
    StartedAt  *time.Time  `json:"started_at,omitempty"`
    FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// SyncResult is the outcome of a completed job. Added/Updated/Deleted
// are set by to-sheet pushes, Imported by from-sheet pulls.
type SyncResult struct {
    Added    int `json:"added"`
    Updated  int `json:"updated"`
    Deleted  int `json:"deleted"`
    Imported int `json:"imported"`
}

// SyncStatus is the per-owner poll surface. Pollers treat IsProcessing
// going false as the sole completion signal.
type SyncStatus struct {
    IsProcessing        bool `json:"isProcessing"`
    FromSheetProcessing bool `json:"fromSheetProcessing"`
    QueueLength         int  `json:"queueLength"`
}

// DeletedRecord identifies a tombstoned record whose external row must
// be removed on the next to-sheet push.
type DeletedRecord struct {
    ID             int  `json:"id"`
    SheetRowNumber *int `json:"sheet_row_number,omitempty"`
}
