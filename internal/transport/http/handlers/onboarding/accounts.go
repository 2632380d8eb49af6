package onboardinghandler

import (
	"net/http"

	"hrcore/internal/domain/banking"
	"hrcore/internal/transport/http/shared"
)

func (h *Handler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	list, err := h.Accounts.List(r.Context(), actor.TenantID, employeeID(r))
	reply(w, http.StatusOK, list, err, reqID)
}

// handlePayoutAccount resolves the account a payment of ?purpose= goes to.
func (h *Handler) handlePayoutAccount(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	purpose := r.URL.Query().Get("purpose")
	if purpose == "" {
		purpose = banking.PurposeSalary
	}
	a, err := h.Accounts.ForPurpose(r.Context(), actor.TenantID, employeeID(r), purpose)
	reply(w, http.StatusOK, a, err, reqID)
}

func (h *Handler) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	a, err := h.Accounts.Get(r.Context(), actor.TenantID, employeeID(r), recordID(r))
	reply(w, http.StatusOK, a, err, reqID)
}

func (h *Handler) handleAddAccount(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var req banking.Request
	if !shared.DecodeJSON(w, r, &req) {
		return
	}
	a, err := h.Accounts.Add(r.Context(), actor.TenantID, employeeID(r), req, actor.UserID)
	reply(w, http.StatusCreated, a, err, reqID)
}

func (h *Handler) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var req banking.Request
	if !shared.DecodeJSON(w, r, &req) {
		return
	}
	a, err := h.Accounts.Update(r.Context(), actor.TenantID, employeeID(r), recordID(r), req, actor.UserID)
	reply(w, http.StatusOK, a, err, reqID)
}

func (h *Handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	err := h.Accounts.Delete(r.Context(), actor.TenantID, employeeID(r), recordID(r), actor.UserID)
	reply(w, http.StatusNoContent, nil, err, reqID)
}

func (h *Handler) handleSetPrimaryAccount(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	a, err := h.Accounts.SetPrimary(r.Context(), actor.TenantID, employeeID(r), recordID(r), actor.UserID)
	reply(w, http.StatusOK, a, err, reqID)
}

func (h *Handler) handleVerifyAccount(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var result banking.VerificationResult
	if !shared.DecodeJSON(w, r, &result) {
		return
	}
	a, err := h.Accounts.RecordVerification(r.Context(), actor.TenantID, employeeID(r), recordID(r), result, actor.UserID)
	reply(w, http.StatusOK, a, err, reqID)
}

func (h *Handler) handleAccountNeedsUpdate(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var payload reasonPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	a, err := h.Accounts.MarkNeedsUpdate(r.Context(), actor.TenantID, employeeID(r), recordID(r), payload.Reason, actor.UserID)
	reply(w, http.StatusOK, a, err, reqID)
}
