package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/leasezero/leasezero-backend/internal/middleware"
	"github.com/leasezero/leasezero-backend/internal/services"
)

// GetPreferences returns the portal preferences for the connected wallet,
// falling back to defaults when nothing is stored.
func GetPreferences(w http.ResponseWriter, r *http.Request) {
	address := middleware.WalletAddress(r)
	respondJSON(w, http.StatusOK, sessionService.Get(r.Context(), address))
}

// SavePreferences persists role and accessibility settings across sessions.
func SavePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs services.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	address := middleware.WalletAddress(r)
	if err := sessionService.Save(r.Context(), address, prefs); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}
