package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leasezero/leasezero-backend/internal/middleware"
	"github.com/leasezero/leasezero-backend/internal/services"
)

// GetProperties lists the public catalog for the tenant portal.
func GetProperties(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, propertyService.List(r.Context()))
}

// GetProperty returns a single listing by id.
func GetProperty(w http.ResponseWriter, r *http.Request) {
	property, err := propertyService.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, property)
}

// GetMyProperties lists the connected landlord's own listings.
func GetMyProperties(w http.ResponseWriter, r *http.Request) {
	owner := middleware.WalletAddress(r)
	respondJSON(w, http.StatusOK, propertyService.ListForOwner(owner))
}

// CreateProperty deploys a new listing. The encrypted criteria go on-chain
// before anything is stored, so a failed deployment leaves no trace.
func CreateProperty(w http.ResponseWriter, r *http.Request) {
	var in services.ListingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	owner := middleware.WalletAddress(r)
	property, err := propertyService.CreateListing(r.Context(), owner, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, property)
}

// UpdateProperty replaces a listing's mutable fields (owner only).
func UpdateProperty(w http.ResponseWriter, r *http.Request) {
	var in services.ListingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	owner := middleware.WalletAddress(r)
	property, err := propertyService.UpdateListing(r.Context(), owner, chi.URLParam(r, "id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, property)
}
