package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leasezero/leasezero-backend/internal/middleware"
	"github.com/leasezero/leasezero-backend/internal/models"
	"github.com/leasezero/leasezero-backend/internal/services"
)

// CheckEligibility runs the evaluator for the connected tenant against a
// listing and returns the per-criterion breakdown.
func CheckEligibility(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.WalletAddress(r)
	result, err := applicationService.EvaluateEligibility(r.Context(), tenant, chi.URLParam(r, "propertyId"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// RevealEligibility publishes the verdict of a previous on-chain check.
func RevealEligibility(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.WalletAddress(r)
	txHash, err := applicationService.RevealEligibility(r.Context(), tenant, chi.URLParam(r, "checkId"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"txHash": txHash})
}

// Apply creates a new application for the connected tenant.
func Apply(w http.ResponseWriter, r *http.Request) {
	var in services.ApplyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}
	if in.PropertyID == "" {
		respondBadRequest(w, "propertyId is required")
		return
	}

	tenant := middleware.WalletAddress(r)
	app, err := applicationService.Apply(r.Context(), tenant, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, app)
}

// GetTenantApplications lists the connected tenant's applications.
func GetTenantApplications(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.WalletAddress(r)
	respondJSON(w, http.StatusOK, applicationService.ListForTenant(tenant))
}

// GetLandlordApplications lists applications against the connected landlord's
// listings, with tenants shown under their anonymous ids only.
func GetLandlordApplications(w http.ResponseWriter, r *http.Request) {
	landlord := middleware.WalletAddress(r)
	apps := applicationService.ListForLandlord(landlord)

	masked := make([]models.Application, len(apps))
	for i, app := range apps {
		app.TenantAddress = ""
		masked[i] = app
	}
	respondJSON(w, http.StatusOK, masked)
}

type transitionFunc func(w http.ResponseWriter, r *http.Request) (models.Application, error)

func transition(w http.ResponseWriter, r *http.Request, run transitionFunc) {
	app, err := run(w, r)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, app)
}

// RequestVerification: landlord asks the tenant for documents.
func RequestVerification(w http.ResponseWriter, r *http.Request) {
	transition(w, r, func(w http.ResponseWriter, r *http.Request) (models.Application, error) {
		return applicationService.RequestVerification(r.Context(), middleware.WalletAddress(r), chi.URLParam(r, "id"))
	})
}

// RejectApplication: landlord declines an application outright.
func RejectApplication(w http.ResponseWriter, r *http.Request) {
	transition(w, r, func(w http.ResponseWriter, r *http.Request) (models.Application, error) {
		return applicationService.Reject(r.Context(), middleware.WalletAddress(r), chi.URLParam(r, "id"))
	})
}

// SubmitDocuments: tenant submits the verification hash on-chain.
func SubmitDocuments(w http.ResponseWriter, r *http.Request) {
	transition(w, r, func(w http.ResponseWriter, r *http.Request) (models.Application, error) {
		return applicationService.SubmitDocuments(r.Context(), middleware.WalletAddress(r), chi.URLParam(r, "id"))
	})
}

// VerifyDocuments: landlord confirms the submitted documents check out.
func VerifyDocuments(w http.ResponseWriter, r *http.Request) {
	transition(w, r, func(w http.ResponseWriter, r *http.Request) (models.Application, error) {
		return applicationService.VerifyDocuments(r.Context(), middleware.WalletAddress(r), chi.URLParam(r, "id"))
	})
}

// ApproveApplication: landlord attests on-chain and approves.
func ApproveApplication(w http.ResponseWriter, r *http.Request) {
	transition(w, r, func(w http.ResponseWriter, r *http.Request) (models.Application, error) {
		return applicationService.ApproveAttestation(r.Context(), middleware.WalletAddress(r), chi.URLParam(r, "id"))
	})
}

// AcknowledgeApplication: tenant accepts the approved lease.
func AcknowledgeApplication(w http.ResponseWriter, r *http.Request) {
	transition(w, r, func(w http.ResponseWriter, r *http.Request) (models.Application, error) {
		return applicationService.Acknowledge(r.Context(), middleware.WalletAddress(r), chi.URLParam(r, "id"))
	})
}

// WithdrawApplication: tenant declines the approved lease.
func WithdrawApplication(w http.ResponseWriter, r *http.Request) {
	transition(w, r, func(w http.ResponseWriter, r *http.Request) (models.Application, error) {
		return applicationService.Withdraw(r.Context(), middleware.WalletAddress(r), chi.URLParam(r, "id"))
	})
}

// GetTransitionHistory returns the audit trail for an application.
func GetTransitionHistory(w http.ResponseWriter, r *http.Request) {
	history, err := applicationService.TransitionHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}
