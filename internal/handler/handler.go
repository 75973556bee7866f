// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stridefantasy/roster-engine/internal/model"
	"github.com/stridefantasy/roster-engine/internal/repository"
	"github.com/stridefantasy/roster-engine/internal/service"
)

// RosterHandler holds all HTTP handlers for the roster API.
type RosterHandler struct {
	svc *service.RosterService
}

// NewRosterHandler constructs a RosterHandler.
func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	return &RosterHandler{svc: svc}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeStorageError maps repository sentinel errors onto HTTP statuses.
func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrVersionConflict):
		writeError(w, http.StatusConflict, "session was modified concurrently, reload and retry")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ─── Athletes ─────────────────────────────────────────────────────────────────

// ListAthletes handles GET /athletes
// Returns the confirmed athlete pool, best-ranked first.
func (h *RosterHandler) ListAthletes(w http.ResponseWriter, r *http.Request) {
	pool, err := h.svc.ListAthletes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list athletes")
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

// ─── Sessions ─────────────────────────────────────────────────────────────────

// CreateSession handles POST /sessions
func (h *RosterHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.CreateSession(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// GetSession handles GET /sessions/{id}
func (h *RosterHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetSlot handles PUT /sessions/{id}/slots/{slot}
// Assigns (or replaces) the slot's athlete. A pre-flight rejection comes back
// as 422 carrying the full check detail; a locked session returns its
// unchanged state with 200.
func (h *RosterHandler) SetSlot(w http.ResponseWriter, r *http.Request) {
	var req model.SetSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	view, pf, err := h.svc.SetSlot(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "slot"), req.AthleteID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if pf != nil {
		writeJSON(w, http.StatusUnprocessableEntity, pf)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ClearSlot handles DELETE /sessions/{id}/slots/{slot}
func (h *RosterHandler) ClearSlot(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.ClearSlot(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "slot"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ClearRoster handles POST /sessions/{id}/clear
func (h *RosterHandler) ClearRoster(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.ClearRoster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Submit handles POST /sessions/{id}/submit
// An invalid roster is rejected with 422 and the full validation detail;
// callers check the payload, they do not parse error strings.
func (h *RosterHandler) Submit(w http.ResponseWriter, r *http.Request) {
	view, rejection, err := h.svc.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if rejection != nil {
		writeJSON(w, http.StatusUnprocessableEntity, model.SubmitRejection{
			Error:      "roster is not submittable",
			Validation: *rejection,
		})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Lock handles POST /sessions/{id}/lock
func (h *RosterHandler) Lock(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Lock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Validation handles GET /sessions/{id}/validation
// Always 200: an invalid roster is data, not an HTTP failure.
func (h *RosterHandler) Validation(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Validation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Preflight handles GET /sessions/{id}/preflight?slot=M1&athlete=42
// Used by athlete pickers to disable invalid selections before commit.
func (h *RosterHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	slot := r.URL.Query().Get("slot")
	athleteID, err := strconv.Atoi(r.URL.Query().Get("athlete"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "athlete must be an integer id")
		return
	}

	pf, err := h.svc.Preflight(r.Context(), chi.URLParam(r, "id"), slot, athleteID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pf)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
