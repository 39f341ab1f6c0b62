// Package lifecycle governs the legal status transitions of a rental
// application. The machine is memoryless: decisions depend only on the
// current status and the acting party.
package lifecycle

import (
	"fmt"

	"github.com/leasezero/leasezero-backend/internal/models"
)

// Actor is the party requesting a transition.
type Actor string

const (
	ActorTenant   Actor = "tenant"
	ActorLandlord Actor = "landlord"
)

// InvalidTransitionError is returned for any transition not in the table.
// Callers must treat it as a rejection and leave the stored status untouched.
type InvalidTransitionError struct {
	From  models.ApplicationStatus
	To    models.ApplicationStatus
	Actor Actor
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s by %s", e.From, e.To, e.Actor)
}

type edge struct {
	from  models.ApplicationStatus
	actor Actor
}

// transitions is the full set of legal moves. Anything absent is illegal.
var transitions = map[edge][]models.ApplicationStatus{
	{models.StatusApplied, ActorLandlord}:             {models.StatusVerificationRequested, models.StatusRejected},
	{models.StatusVerificationRequested, ActorTenant}: {models.StatusDocsSubmitted},
	{models.StatusDocsSubmitted, ActorLandlord}:       {models.StatusApproved},
	{models.StatusApproved, ActorTenant}:              {models.StatusAcknowledged, models.StatusWithdrawn},
}

// Initial is the status every application is created with.
const Initial = models.StatusApplied

// CanTransition reports whether actor may move an application from one status
// to another.
func CanTransition(from, to models.ApplicationStatus, actor Actor) bool {
	for _, allowed := range transitions[edge{from, actor}] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates the requested move and returns the new status, or an
// InvalidTransitionError without side effects.
func Transition(from, to models.ApplicationStatus, actor Actor) (models.ApplicationStatus, error) {
	if !CanTransition(from, to, actor) {
		return from, &InvalidTransitionError{From: from, To: to, Actor: actor}
	}
	return to, nil
}

// IsTerminal reports whether no further transitions exist from s.
func IsTerminal(s models.ApplicationStatus) bool {
	switch s {
	case models.StatusAcknowledged, models.StatusRejected, models.StatusWithdrawn:
		return true
	}
	return false
}

// IsActive reports whether s counts against the one-active-application-per-
// tenant rule.
func IsActive(s models.ApplicationStatus) bool {
	switch s {
	case models.StatusApplied, models.StatusVerificationRequested,
		models.StatusDocsSubmitted, models.StatusApproved:
		return true
	}
	return false
}

// ReachedDocsSubmission reports whether s is docs_submitted or a later stage,
// used by the reputation scorer as a positive engagement signal.
func ReachedDocsSubmission(s models.ApplicationStatus) bool {
	switch s {
	case models.StatusDocsSubmitted, models.StatusApproved, models.StatusAcknowledged:
		return true
	}
	return false
}

// ReachedVerification reports whether a verification was ever requested on an
// application in status s.
func ReachedVerification(s models.ApplicationStatus) bool {
	switch s {
	case models.StatusVerificationRequested, models.StatusDocsSubmitted,
		models.StatusApproved, models.StatusAcknowledged, models.StatusRejected:
		return true
	}
	return false
}
