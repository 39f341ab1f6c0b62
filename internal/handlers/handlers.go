package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leasezero/leasezero-backend/internal/chain"
	"github.com/leasezero/leasezero-backend/internal/config"
	"github.com/leasezero/leasezero-backend/internal/gating"
	"github.com/leasezero/leasezero-backend/internal/lifecycle"
	"github.com/leasezero/leasezero-backend/internal/models"
	"github.com/leasezero/leasezero-backend/internal/services"
)

var (
	cfg                *config.Config
	applicationService *services.ApplicationService
	propertyService    *services.PropertyService
	profileService     *services.ProfileService
	sessionService     *services.SessionService
	portalHub          *services.Hub
)

// Init wires the handler package to the services built in main.
func Init(c *config.Config, apps *services.ApplicationService, props *services.PropertyService,
	profiles *services.ProfileService, sessions *services.SessionService, hub *services.Hub) {
	cfg = c
	applicationService = apps
	propertyService = props
	profileService = profiles
	sessionService = sessions
	portalHub = hub
}

type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err))
	json.NewEncoder(w).Encode(apiResponse{Success: false, Message: err.Error()})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Message: message})
}

// statusFor maps the service error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var validation *models.ValidationError
	var transition *lifecycle.InvalidTransitionError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrNotYourApplication):
		return http.StatusForbidden
	case errors.Is(err, services.ErrActiveApplicationExists),
		errors.Is(err, services.ErrProfileSealed),
		errors.Is(err, services.ErrProfileNotSealed):
		return http.StatusConflict
	case errors.As(err, &transition):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotEligible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gating.ErrCancelled):
		return http.StatusBadRequest
	case errors.Is(err, gating.ErrTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, chain.ErrRejected),
		errors.Is(err, chain.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, chain.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
