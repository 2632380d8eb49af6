package onboardinghandler

import (
	"net/http"

	"hrcore/internal/transport/http/shared"
)

func (h *Handler) handleListAddresses(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	list, err := h.Addresses.List(r.Context(), actor.TenantID, employeeID(r))
	reply(w, http.StatusOK, list, err, reqID)
}

func (h *Handler) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	a, err := h.Addresses.Get(r.Context(), actor.TenantID, employeeID(r), recordID(r))
	reply(w, http.StatusOK, a, err, reqID)
}

func (h *Handler) handleAddAddress(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var payload addressPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	req := payload.toRequest(v)
	if v.Reject(w, reqID) {
		return
	}
	a, err := h.Addresses.Add(r.Context(), actor.TenantID, employeeID(r), req, actor.UserID)
	reply(w, http.StatusCreated, a, err, reqID)
}

func (h *Handler) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var payload addressPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	req := payload.toRequest(v)
	if v.Reject(w, reqID) {
		return
	}
	a, err := h.Addresses.Update(r.Context(), actor.TenantID, employeeID(r), recordID(r), req, actor.UserID)
	reply(w, http.StatusOK, a, err, reqID)
}

func (h *Handler) handleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	err := h.Addresses.Delete(r.Context(), actor.TenantID, employeeID(r), recordID(r), actor.UserID)
	reply(w, http.StatusNoContent, nil, err, reqID)
}

func (h *Handler) handleSetPrimaryAddress(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	a, err := h.Addresses.SetPrimary(r.Context(), actor.TenantID, employeeID(r), recordID(r), actor.UserID)
	reply(w, http.StatusOK, a, err, reqID)
}

func (h *Handler) handleVerifyAddress(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	a, err := h.Addresses.Verify(r.Context(), actor.TenantID, employeeID(r), recordID(r), actor.UserID)
	reply(w, http.StatusOK, a, err, reqID)
}
