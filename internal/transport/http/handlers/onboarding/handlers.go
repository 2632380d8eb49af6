package onboardinghandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrcore/internal/auth"
	"hrcore/internal/domain/address"
	"hrcore/internal/domain/banking"
	"hrcore/internal/domain/emergency"
	"hrcore/internal/domain/identity"
	"hrcore/internal/domain/onboarding"
	"hrcore/internal/requestctx"
	"hrcore/internal/transport/http/api"
	"hrcore/internal/transport/http/middleware"
)

type Handler struct {
	Onboarding *onboarding.Service
	Addresses  *address.Service
	Contacts   *emergency.Service
	Documents  *identity.Service
	Accounts   *banking.Service
}

func NewHandler(o *onboarding.Service, a *address.Service, c *emergency.Service, d *identity.Service, b *banking.Service) *Handler {
	return &Handler{Onboarding: o, Addresses: a, Contacts: c, Documents: d, Accounts: b}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermOnboardingRead)
	write := middleware.RequirePermission(auth.PermOnboardingWrite)
	manage := middleware.RequirePermission(auth.PermOnboardingManage)
	verify := middleware.RequirePermission(auth.PermRecordsVerify)

	r.Route("/document-types", func(r chi.Router) {
		r.Use(read)
		r.Get("/", h.handleDocumentTypes)
		r.Get("/required", h.handleRequiredDocumentTypes)
	})

	r.With(manage).Post("/employees/onboarding", h.handleStart)

	r.Route("/employees/{employeeID}", func(r chi.Router) {
		r.Use(selfOnly)

		r.Route("/onboarding", func(r chi.Router) {
			r.With(read).Get("/", h.handleStatus)
			r.With(manage).Post("/complete", h.handleComplete)
			r.With(read).Get("/summary.pdf", h.handleSummaryPDF)
			r.With(write).Post("/addresses", h.handleOnboardingAddress)
			r.With(write).Post("/emergency-contacts", h.handleOnboardingContact)
			r.With(write).Post("/identity-documents", h.handleOnboardingDocument)
			r.With(write).Post("/bank-accounts", h.handleOnboardingAccount)
		})
		r.With(write).Put("/basic-info", h.handleBasicInfo)

		r.Route("/addresses", func(r chi.Router) {
			r.With(read).Get("/", h.handleListAddresses)
			r.With(write).Post("/", h.handleAddAddress)
			r.Route("/{recordID}", func(r chi.Router) {
				r.With(read).Get("/", h.handleGetAddress)
				r.With(write).Put("/", h.handleUpdateAddress)
				r.With(write).Delete("/", h.handleDeleteAddress)
				r.With(write).Post("/primary", h.handleSetPrimaryAddress)
				r.With(verify).Post("/verify", h.handleVerifyAddress)
			})
		})

		r.Route("/emergency-contacts", func(r chi.Router) {
			r.With(read).Get("/", h.handleListContacts)
			r.With(write).Post("/", h.handleAddContact)
			r.With(write).Put("/reorder", h.handleReorderContacts)
			r.Route("/{recordID}", func(r chi.Router) {
				r.With(read).Get("/", h.handleGetContact)
				r.With(write).Put("/", h.handleUpdateContact)
				r.With(write).Delete("/", h.handleDeleteContact)
				r.With(write).Post("/primary", h.handleSetPrimaryContact)
			})
		})

		r.Route("/identity-documents", func(r chi.Router) {
			r.With(read).Get("/", h.handleListDocuments)
			r.With(read).Get("/expiring", h.handleExpiringDocuments)
			r.With(write).Post("/", h.handleAddDocument)
			r.Route("/{recordID}", func(r chi.Router) {
				r.With(read).Get("/", h.handleGetDocument)
				r.With(write).Put("/", h.handleUpdateDocument)
				r.With(write).Delete("/", h.handleDeleteDocument)
				r.With(verify).Post("/verify", h.handleVerifyDocument)
				r.With(verify).Post("/needs-update", h.handleDocumentNeedsUpdate)
				r.With(verify).Post("/expire", h.handleExpireDocument)
			})
		})

		r.Route("/bank-accounts", func(r chi.Router) {
			r.With(read).Get("/", h.handleListAccounts)
			r.With(read).Get("/payout", h.handlePayoutAccount)
			r.With(write).Post("/", h.handleAddAccount)
			r.Route("/{recordID}", func(r chi.Router) {
				r.With(read).Get("/", h.handleGetAccount)
				r.With(write).Put("/", h.handleUpdateAccount)
				r.With(write).Delete("/", h.handleDeleteAccount)
				r.With(write).Post("/primary", h.handleSetPrimaryAccount)
				r.With(verify).Post("/verify", h.handleVerifyAccount)
				r.With(verify).Post("/needs-update", h.handleAccountNeedsUpdate)
			})
		})
	})
}

// selfOnly keeps EMPLOYEE callers on their own record.
func selfOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
			return
		}
		if actor.Role == auth.RoleEmployee && actor.EmployeeID != chi.URLParam(r, "employeeID") {
			api.Fail(w, http.StatusForbidden, "forbidden", "employees may only access their own records", middleware.GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// caller returns the actor and request id. Routes are mounted behind
// RequireAuth, so the actor is always present.
func caller(r *http.Request) (requestctx.Actor, string) {
	actor, _ := middleware.GetActor(r.Context())
	return actor, middleware.GetRequestID(r.Context())
}

func employeeID(r *http.Request) string {
	return chi.URLParam(r, "employeeID")
}

func recordID(r *http.Request) string {
	return chi.URLParam(r, "recordID")
}

// reply writes v, or the mapped error when err is set.
func reply(w http.ResponseWriter, status int, v any, err error, requestID string) {
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	switch status {
	case http.StatusCreated:
		api.Created(w, v, requestID)
	case http.StatusNoContent:
		api.NoContent(w)
	default:
		api.Success(w, v, requestID)
	}
}
