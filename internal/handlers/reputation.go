package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetTenantReputation scores any tenant address from their application
// history. Landlords call this with the anonymous applicant resolved
// server-side, so the address itself never reaches the landlord portal.
func GetTenantReputation(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, applicationService.TenantReputation(chi.URLParam(r, "address")))
}

// GetLandlordReputation scores a landlord from decisions on their listings.
func GetLandlordReputation(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, applicationService.LandlordReputation(chi.URLParam(r, "address")))
}
