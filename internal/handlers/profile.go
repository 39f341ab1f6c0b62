package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/leasezero/leasezero-backend/internal/middleware"
	"github.com/leasezero/leasezero-backend/internal/services"
)

// GetProfile returns the masked view of the connected tenant's profile.
// Figures never leave the server; the view only says which fields are set.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	address := middleware.WalletAddress(r)
	respondJSON(w, http.StatusOK, profileService.View(address))
}

// SaveProfile stores or updates the unsealed draft profile.
func SaveProfile(w http.ResponseWriter, r *http.Request) {
	var in services.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	address := middleware.WalletAddress(r)
	view, err := profileService.SaveDraft(address, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SealProfile encrypts the draft and registers it on-chain (gated).
func SealProfile(w http.ResponseWriter, r *http.Request) {
	address := middleware.WalletAddress(r)
	view, err := profileService.Seal(r.Context(), address)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// ReviseProfile drops the seal so the tenant can edit and re-seal.
func ReviseProfile(w http.ResponseWriter, r *http.Request) {
	address := middleware.WalletAddress(r)
	view, err := profileService.Revise(address)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}
