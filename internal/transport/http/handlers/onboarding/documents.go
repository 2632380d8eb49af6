package onboardinghandler

import (
	"net/http"
	"strconv"

	"hrcore/internal/domain/identity"
	"hrcore/internal/transport/http/shared"
)

const defaultExpiryWindowDays = 30

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	list, err := h.Documents.List(r.Context(), actor.TenantID, employeeID(r))
	reply(w, http.StatusOK, list, err, reqID)
}

func (h *Handler) handleExpiringDocuments(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	days := defaultExpiryWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 3650 {
			v := shared.NewValidator()
			v.Add("days", "must be a whole number between 0 and 3650")
			v.Reject(w, reqID)
			return
		}
		days = parsed
	}
	list, err := h.Documents.Expiring(r.Context(), actor.TenantID, employeeID(r), days)
	reply(w, http.StatusOK, list, err, reqID)
}

func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	d, err := h.Documents.Get(r.Context(), actor.TenantID, employeeID(r), recordID(r))
	reply(w, http.StatusOK, d, err, reqID)
}

func (h *Handler) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var payload documentPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	req := payload.toRequest(v)
	if v.Reject(w, reqID) {
		return
	}
	d, err := h.Documents.Add(r.Context(), actor.TenantID, employeeID(r), req, actor.UserID)
	reply(w, http.StatusCreated, d, err, reqID)
}

func (h *Handler) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var payload documentPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	req := payload.toUpdate(v)
	if v.Reject(w, reqID) {
		return
	}
	d, err := h.Documents.Update(r.Context(), actor.TenantID, employeeID(r), recordID(r), req, actor.UserID)
	reply(w, http.StatusOK, d, err, reqID)
}

func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	err := h.Documents.Delete(r.Context(), actor.TenantID, employeeID(r), recordID(r), actor.UserID)
	reply(w, http.StatusNoContent, nil, err, reqID)
}

func (h *Handler) handleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var decision identity.Decision
	if !shared.DecodeJSON(w, r, &decision) {
		return
	}
	d, err := h.Documents.Verify(r.Context(), actor.TenantID, employeeID(r), recordID(r), decision, actor.UserID)
	reply(w, http.StatusOK, d, err, reqID)
}

func (h *Handler) handleDocumentNeedsUpdate(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var payload reasonPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	d, err := h.Documents.MarkNeedsUpdate(r.Context(), actor.TenantID, employeeID(r), recordID(r), payload.Reason, actor.UserID)
	reply(w, http.StatusOK, d, err, reqID)
}

func (h *Handler) handleExpireDocument(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	d, err := h.Documents.MarkExpired(r.Context(), actor.TenantID, employeeID(r), recordID(r), actor.UserID)
	reply(w, http.StatusOK, d, err, reqID)
}
