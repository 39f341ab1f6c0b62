package models

import "time"

// ApplicationStatus is the lifecycle state of a rental application.
type ApplicationStatus string

const (
	StatusApplied               ApplicationStatus = "applied"
	StatusVerificationRequested ApplicationStatus = "verification_requested"
	StatusDocsSubmitted         ApplicationStatus = "docs_submitted"
	StatusApproved              ApplicationStatus = "approved"
	StatusAcknowledged          ApplicationStatus = "acknowledged"
	StatusRejected              ApplicationStatus = "rejected"
	StatusWithdrawn             ApplicationStatus = "withdrawn"
)

// Application is the central entity tying a tenant to a property. It is
// created on apply and mutated only through lifecycle transitions; terminal
// statuses are kept, never deleted.
type Application struct {
	ID            string            `json:"id"`
	PropertyID    string            `json:"propertyId"`
	TenantAddress string            `json:"tenantAddress"`
	Status        ApplicationStatus `json:"status"`
	Timestamp     time.Time         `json:"timestamp"`

	// Anonymized data visible to the landlord.
	AnonymousID   string `json:"anonymousId"`
	Occupants     int    `json:"occupants"`
	MoveInDate    string `json:"moveInDate"`
	IsEligibleFHE bool   `json:"isEligibleFHE"`

	// Verification attestation fields, populated as the lifecycle advances.
	DocHash            string `json:"docHash,omitempty"`
	VerificationTx     string `json:"verificationTx,omitempty"`
	IsVerifiedOnChain  bool   `json:"isVerifiedOnChain,omitempty"`
	IsDocumentVerified bool   `json:"isDocumentVerified,omitempty"`
}
