package onboardinghandler

import (
	"log/slog"
	"net/http"
	"strings"

	"hrcore/internal/domain/banking"
	"hrcore/internal/domain/emergency"
	"hrcore/internal/domain/identity"
	"hrcore/internal/domain/onboarding"
	"hrcore/internal/transport/http/api"
	"hrcore/internal/transport/http/shared"
)

func (h *Handler) handleDocumentTypes(w http.ResponseWriter, r *http.Request) {
	_, reqID := caller(r)
	country, ok := countryParam(w, r, reqID)
	if !ok {
		return
	}
	api.Success(w, identity.DocumentTypesForCountry(country), reqID)
}

func (h *Handler) handleRequiredDocumentTypes(w http.ResponseWriter, r *http.Request) {
	_, reqID := caller(r)
	country, ok := countryParam(w, r, reqID)
	if !ok {
		return
	}
	api.Success(w, identity.RequiredDocumentsForOnboarding(country), reqID)
}

func countryParam(w http.ResponseWriter, r *http.Request, reqID string) (string, bool) {
	country := strings.TrimSpace(r.URL.Query().Get("country"))
	if len(country) != 3 {
		v := shared.NewValidator()
		v.Add("country", "must be an ISO 3166-1 alpha-3 code")
		v.Reject(w, reqID)
		return "", false
	}
	return country, true
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var req onboarding.StartRequest
	if !shared.DecodeJSON(w, r, &req) {
		return
	}
	emp, snap, err := h.Onboarding.Start(r.Context(), actor.TenantID, req, actor.UserID)
	reply(w, http.StatusCreated, startResponse{Employee: emp, Snapshot: snap}, err, reqID)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	snap, err := h.Onboarding.Status(r.Context(), actor.TenantID, employeeID(r))
	reply(w, http.StatusOK, snap, err, reqID)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	snap, err := h.Onboarding.Complete(r.Context(), actor.TenantID, employeeID(r), actor.UserID)
	if err == nil {
		slog.Info("onboarding completed", "tenant_id", actor.TenantID, "employee_id", employeeID(r), "actor", actor.UserID)
	}
	reply(w, http.StatusOK, snap, err, reqID)
}

func (h *Handler) handleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	out, err := h.Onboarding.SummaryPDF(r.Context(), actor.TenantID, employeeID(r))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="onboarding-summary.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		slog.Warn("write pdf failed", "err", err, "request_id", reqID)
	}
}

func (h *Handler) handleBasicInfo(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var payload basicInfoPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	req := payload.toRequest(v)
	if v.Reject(w, reqID) {
		return
	}
	snap, err := h.Onboarding.UpdateBasicInfo(r.Context(), actor.TenantID, employeeID(r), req, actor.UserID)
	reply(w, http.StatusOK, snap, err, reqID)
}

func (h *Handler) handleOnboardingAddress(w http.ResponseWriter, r *http.Request) {
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
	snap, err := h.Onboarding.AddAddress(r.Context(), actor.TenantID, employeeID(r), req, actor.UserID)
	reply(w, http.StatusOK, snap, err, reqID)
}

func (h *Handler) handleOnboardingContact(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var req emergency.Request
	if !shared.DecodeJSON(w, r, &req) {
		return
	}
	snap, err := h.Onboarding.AddEmergencyContact(r.Context(), actor.TenantID, employeeID(r), req, actor.UserID)
	reply(w, http.StatusOK, snap, err, reqID)
}

func (h *Handler) handleOnboardingDocument(w http.ResponseWriter, r *http.Request) {
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
	snap, err := h.Onboarding.AddIdentityDocument(r.Context(), actor.TenantID, employeeID(r), req, actor.UserID)
	reply(w, http.StatusOK, snap, err, reqID)
}

func (h *Handler) handleOnboardingAccount(w http.ResponseWriter, r *http.Request) {
	actor, reqID := caller(r)
	var req banking.Request
	if !shared.DecodeJSON(w, r, &req) {
		return
	}
	snap, err := h.Onboarding.AddBankAccount(r.Context(), actor.TenantID, employeeID(r), req, actor.UserID)
	reply(w, http.StatusOK, snap, err, reqID)
}
