// internal/handler/lead_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agencydesk/agencydesk-backend/internal/auth"
	"github.com/agencydesk/agencydesk-backend/internal/service"
)

// LeadHandler holds the dependencies for lead HTTP handlers
type LeadHandler struct {
	Service *service.LeadService
}

func (h *LeadHandler) CreateLeadHandler(w http.ResponseWriter, r *http.Request) {
	var payload service.LeadPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	force := r.URL.Query().Get("force") == "true"

	lead, conflict, err := h.Service.Create(auth.OwnerID(r), payload, force)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if conflict != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"is_duplicate": true,
			"existing":     conflict.Existing,
			"match":        conflict.Match,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(lead)
}

func (h *LeadHandler) ListLeadsHandler(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Service.List(auth.OwnerID(r))
	if err != nil {
		http.Error(w, "failed to fetch leads: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": leads})
}

func (h *LeadHandler) GetLeadHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid lead id", http.StatusBadRequest)
		return
	}

	lead, err := h.Service.Get(auth.OwnerID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}

func (h *LeadHandler) UpdateLeadHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid lead id", http.StatusBadRequest)
		return
	}

	var payload service.LeadPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	lead, outcome, err := h.Service.Update(auth.OwnerID(r), id, payload)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recordResponse(lead, outcome))
}

func (h *LeadHandler) DeleteLeadHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid lead id", http.StatusBadRequest)
		return
	}

	var sheetRow *int
	if v := r.URL.Query().Get("sheet_row_number"); v != "" {
		if row, err := strconv.Atoi(v); err == nil {
			sheetRow = &row
		}
	}

	outcome, err := h.Service.Delete(auth.OwnerID(r), id, sheetRow)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]interface{}{"deleted": true, "id": outcome.ID}
	if outcome.Healed {
		resp["_idChanged"] = true
		resp["_oldId"] = outcome.OldID
		resp["_newId"] = outcome.NewID
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
