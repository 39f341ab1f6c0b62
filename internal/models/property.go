package models

import (
	"fmt"
	"time"
)

// PropertyType is the dwelling category of a listing.
type PropertyType string

const (
	PropertyApartment PropertyType = "Apartment"
	PropertyHouse     PropertyType = "House"
	PropertyStudio    PropertyType = "Studio"
	PropertyLoft      PropertyType = "Loft"
)

// ValidPropertyType reports whether t is one of the known dwelling categories.
func ValidPropertyType(t PropertyType) bool {
	switch t {
	case PropertyApartment, PropertyHouse, PropertyStudio, PropertyLoft:
		return true
	}
	return false
}

// PropertySpecs holds the descriptive sizing details shown in the detail view.
type PropertySpecs struct {
	Bedrooms  int `json:"bedrooms"`
	Bathrooms int `json:"bathrooms"`
	SqFt      int `json:"sqFt"`
	YearBuilt int `json:"yearBuilt"`
}

// PropertyInfo holds free-form supplementary listing details.
type PropertyInfo struct {
	PetPolicy       string `json:"petPolicy"`
	FurnishedStatus string `json:"furnishedStatus"`
	Transport       string `json:"transport"`
}

// Property is a landlord-owned listing with its public eligibility thresholds.
// The encrypted copies of the thresholds live on-chain; these plaintext values
// drive the local evaluator only.
type Property struct {
	ID                 string       `json:"id"`
	OnChainID          string       `json:"onChainId,omitempty"`
	OwnerAddress       string       `json:"ownerAddress"`
	Address            string       `json:"address"`
	Rent               int          `json:"rent"`
	Type               PropertyType `json:"type"`
	AvailableFrom      string       `json:"availableFrom"`
	CreatedAt          time.Time    `json:"createdAt"`
	Images             []string     `json:"images"`
	MinIncome          int          `json:"minIncome"`
	MinSeniorityMonths int          `json:"minSeniorityMonths"`
	RequireSavings     bool         `json:"requireSavingsBuffer"`
	RequireGuarantor   bool         `json:"requireGuarantor"`
	EmploymentTypes    []string     `json:"employmentTypes"`
	Features           []string     `json:"features"`
	ApplicantsCount    int          `json:"applicantsCount"`
	MaxMissedPayments  int          `json:"maxMissedPayments"`
	MaxOccupants       int          `json:"maxOccupants"`
	MinTenancyDuration string       `json:"minTenancyDuration"`

	Description    string        `json:"description"`
	Amenities      []string      `json:"amenities"`
	Specs          PropertySpecs `json:"specs"`
	AdditionalInfo PropertyInfo  `json:"additionalInfo"`
}

// ValidationError reports an invalid field on a request before any gated
// action is allowed to start.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// Validate enforces the listing invariants: rent must be positive, thresholds
// non-negative, and the address/image requirements from the listing form.
func (p *Property) Validate() error {
	if p.Address == "" {
		return &ValidationError{Field: "address", Message: "property address is required"}
	}
	if p.Rent <= 0 {
		return &ValidationError{Field: "rent", Message: "monthly rent must be greater than zero"}
	}
	if len(p.Images) == 0 {
		return &ValidationError{Field: "images", Message: "at least one image is required"}
	}
	if !ValidPropertyType(p.Type) {
		return &ValidationError{Field: "type", Message: "unknown property type"}
	}
	if p.MinIncome < 0 {
		return &ValidationError{Field: "minIncome", Message: "minimum income cannot be negative"}
	}
	if p.MinSeniorityMonths < 0 {
		return &ValidationError{Field: "minSeniorityMonths", Message: "minimum seniority cannot be negative"}
	}
	if p.MaxMissedPayments < 0 {
		return &ValidationError{Field: "maxMissedPayments", Message: "max missed payments cannot be negative"}
	}
	if p.MaxOccupants < 1 {
		return &ValidationError{Field: "maxOccupants", Message: "max occupants must be at least 1"}
	}
	return nil
}
