package onboardinghandler

import (
	"net/http"

	"hrcore/internal/domain/emergency"
	"hrcore/internal/transport/http/shared"
)

func (h *Handler) handleListContacts(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	list, err := h.Contacts.List(r.Context(), actor.TenantID, employeeID(r))
	reply(w, http.StatusOK, list, err, reqID)
}

func (h *Handler) handleGetContact(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	c, err := h.Contacts.Get(r.Context(), actor.TenantID, employeeID(r), recordID(r))
	reply(w, http.StatusOK, c, err, reqID)
}

func (h *Handler) handleAddContact(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var req emergency.Request
	if !shared.DecodeJSON(w, r, &req) {
		return
	}
	c, err := h.Contacts.Add(r.Context(), actor.TenantID, employeeID(r), req, actor.UserID)
	reply(w, http.StatusCreated, c, err, reqID)
}

func (h *Handler) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var req emergency.Request
	if !shared.DecodeJSON(w, r, &req) {
		return
	}
	c, err := h.Contacts.Update(r.Context(), actor.TenantID, employeeID(r), recordID(r), req, actor.UserID)
	reply(w, http.StatusOK, c, err, reqID)
}

func (h *Handler) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	err := h.Contacts.Delete(r.Context(), actor.TenantID, employeeID(r), recordID(r), actor.UserID)
	reply(w, http.StatusNoContent, nil, err, reqID)
}

func (h *Handler) handleReorderContacts(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var payload reorderPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	list, err := h.Contacts.Reorder(r.Context(), actor.TenantID, employeeID(r), payload.IDs, actor.UserID)
	reply(w, http.StatusOK, list, err, reqID)
}

func (h *Handler) handleSetPrimaryContact(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	c, err := h.Contacts.SetPrimary(r.Context(), actor.TenantID, employeeID(r), recordID(r), actor.UserID)
	reply(w, http.StatusOK, c, err, reqID)
}
