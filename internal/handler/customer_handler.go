// internal/handler/customer_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agencydesk/agencydesk-backend/internal/auth"
	appErrors "github.com/agencydesk/agencydesk-backend/internal/errors"
	"github.com/agencydesk/agencydesk-backend/internal/service"
)

// CustomerHandler holds the dependencies for customer HTTP handlers
type CustomerHandler struct {
	Service *service.CustomerService
}

// CreateCustomerHandler validates, dedup-checks and inserts a customer.
// A detected duplicate is a 409 carrying the match details; ?force=true
// skips the check.
func (h *CustomerHandler) CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var payload service.CustomerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	force := r.URL.Query().Get("force") == "true"

	customer, conflict, err := h.Service.Create(auth.OwnerID(r), payload, force)
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
	json.NewEncoder(w).Encode(customer)
}

// ListCustomersHandler returns the owner's customers, optionally
// filtered by vertical
func (h *CustomerHandler) ListCustomersHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.List(auth.OwnerID(r), r.URL.Query().Get("vertical"))
	if err != nil {
		http.Error(w, "failed to fetch customers: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": customers})
}

func (h *CustomerHandler) GetCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	customer, err := h.Service.Get(auth.OwnerID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(customer)
}

// UpdateCustomerHandler applies the mutation, healing a stale id via
// the sheet row number when possible. A healed response carries
// _idChanged/_oldId/_newId so the client can fix its cache; a true
// not-found is a 404 with shouldRefresh telling the client to refetch
// its whole record set.
func (h *CustomerHandler) UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	var payload service.CustomerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	customer, outcome, err := h.Service.Update(auth.OwnerID(r), id, payload)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recordResponse(customer, outcome))
}

func (h *CustomerHandler) DeleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
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

// recordResponse merges heal metadata into the record body.
func recordResponse(record interface{}, outcome *service.HealOutcome) map[string]interface{} {
	resp := map[string]interface{}{}
	raw, _ := json.Marshal(record)
	json.Unmarshal(raw, &resp)
	if outcome != nil && outcome.Healed {
		resp["_idChanged"] = true
		resp["_oldId"] = outcome.OldID
		resp["_newId"] = outcome.NewID
	}
	return resp
}

// writeServiceError maps the error taxonomy onto machine-readable JSON
// responses: validation is a 400, a true not-found is a 404 instructing
// a full cache refresh, anything else a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if ve, ok := appErrors.AsValidation(err); ok {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":          ve.Error(),
			"missing_fields": ve.Fields,
		})
		return
	}
	if nf, ok := appErrors.AsRecordNotFound(err); ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":         nf.Error(),
			"shouldRefresh": nf.ShouldRefresh,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error()})
}
