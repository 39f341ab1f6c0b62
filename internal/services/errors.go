package services

import "errors"

var (
	// ErrNotFound: the referenced application or property does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNotOwner: the caller does not own the property they try to mutate.
	ErrNotOwner = errors.New("caller does not own this property")
	// ErrNotYourApplication: a tenant acted on another tenant's application.
	ErrNotYourApplication = errors.New("application belongs to another tenant")
	// ErrActiveApplicationExists: one active application per tenant, always.
	ErrActiveApplicationExists = errors.New("tenant already has an active application")
	// ErrProfileSealed: a sealed profile cannot be edited in place.
	ErrProfileSealed = errors.New("profile is sealed; revise it first")
	// ErrProfileNotSealed: applying requires a committed profile.
	ErrProfileNotSealed = errors.New("profile must be sealed before this action")
	// ErrNotEligible: the local evaluation failed; the application is blocked.
	ErrNotEligible = errors.New("profile does not meet the property requirements")
)
