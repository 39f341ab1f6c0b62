// Package store provides keyed persistence for applications, properties and
// confidential profiles behind small interfaces, so services can run against
// postgres in production and in-memory doubles in tests.
//
// Read paths fail open: a corrupt or unreadable record degrades to "absent"
// and a dead backend reads as empty. The worst case is a stale view, never a
// crashed session.
package store

import "github.com/leasezero/leasezero-backend/internal/models"

// ApplicationStore is keyed storage for application records. Upsert has
// last-writer-wins semantics on the full record; there is no partial merge.
type ApplicationStore interface {
	Upsert(app models.Application) error
	GetByID(id string) (models.Application, bool)
	ListAll() []models.Application
	ListForProperties(propertyIDs []string) []models.Application
	// ListForTenant matches the address case-insensitively; wallet addresses
	// are not guaranteed to arrive in canonical case.
	ListForTenant(tenantAddress string) []models.Application
}

// PropertyStore is keyed storage for listings. Listings are never deleted.
type PropertyStore interface {
	Create(p models.Property) error
	Update(p models.Property) error
	GetByID(id string) (models.Property, bool)
	ListAll() []models.Property
	ListForOwner(ownerAddress string) []models.Property
}

// ProfileStore holds at most one confidential profile per tenant address.
type ProfileStore interface {
	Save(p models.ConfidentialProfile) error
	Get(address string) (models.ConfidentialProfile, bool)
}
