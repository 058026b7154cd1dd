// internal/controller/sync_controller.go
package controller

import (
    "encoding/json"
    "net/http"

    "github.com/go-chi/chi/v5"

    "github.com/agencydesk/agencydesk-backend/internal/auth"
    "github.com/agencydesk/agencydesk-backend/internal/metrics"
    "github.com/agencydesk/agencydesk-backend/internal/model"
    "github.com/agencydesk/agencydesk-backend/internal/service"
)

type SyncController struct {
    SyncService *service.SyncService
    Incidents   *metrics.Incidents
}

// SyncToSheet queues a push job. The response never waits on sheet I/O.
func (c *SyncController) SyncToSheet(w http.ResponseWriter, r *http.Request) {
    var body struct {
        TabName        string                `json:"tab_name"`
        DeletedRecords []model.DeletedRecord `json:"deleted_records"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    job, err := c.SyncService.QueueToSheet(auth.OwnerID(r), body.TabName, body.DeletedRecords)
    if err != nil {
        w.Header().Set("Content-Type", "application/json")
        w.WriteHeader(http.StatusBadRequest)
        json.NewEncoder(w).Encode(map[string]interface{}{"queued": false, "error": err.Error()})
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{"queued": true, "job_id": job.ID})
}

// SyncFromSheet queues a pull job.
func (c *SyncController) SyncFromSheet(w http.ResponseWriter, r *http.Request) {
    var body struct {
        TabName string `json:"tab_name"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    job, err := c.SyncService.QueueFromSheet(auth.OwnerID(r), body.TabName)
    if err != nil {
        w.Header().Set("Content-Type", "application/json")
        w.WriteHeader(http.StatusBadRequest)
        json.NewEncoder(w).Encode(map[string]interface{}{"queued": false, "error": err.Error()})
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{"queued": true, "job_id": job.ID})
}

// SyncStatus is the poll endpoint. Clients cap their polling attempts
// and treat exceeding the cap as a timeout, not as job failure; the
// job keeps running regardless of the poller's lifetime.
func (c *SyncController) SyncStatus(w http.ResponseWriter, r *http.Request) {
    status := c.SyncService.Status(auth.OwnerID(r))

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(status)
}

func (c *SyncController) GetJob(w http.ResponseWriter, r *http.Request) {
    job := c.SyncService.GetJob(chi.URLParam(r, "id"))
    if job == nil || job.OwnerID != auth.OwnerID(r) {
        http.Error(w, "job not found", http.StatusNotFound)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(job)
}

// IncidentStats exposes the healing counters for monitoring.
func (c *SyncController) IncidentStats(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(c.Incidents.GetStats())
}

func (c *SyncController) ResetIncidents(w http.ResponseWriter, r *http.Request) {
    c.Incidents.Reset()

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{"reset": true})
}
