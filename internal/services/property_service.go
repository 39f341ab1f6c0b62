package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leasezero/leasezero-backend/internal/chain"
	"github.com/leasezero/leasezero-backend/internal/gating"
	"github.com/leasezero/leasezero-backend/internal/models"
	"github.com/leasezero/leasezero-backend/internal/store"
)

// savingsRentMultiple / guarantorRentMultiple mirror the evaluator: listing
// thresholds are derived from rent at deploy time, never entered directly.
const (
	incomeRentMultiple    = 3
	savingsRentMultiple   = 3
	guarantorRentMultiple = 4
)

// PropertyService owns listing creation and edits. Deploys and updates are
// gated; every mutation is authorized against the listing's owner address.
type PropertyService struct {
	props    store.PropertyStore
	catalog  *store.CatalogCache
	contract chain.Contract
	enc      chain.EncryptionProvider
	orch     *gating.Orchestrator

	contractAddress string
}

func NewPropertyService(props store.PropertyStore, catalog *store.CatalogCache,
	contract chain.Contract, enc chain.EncryptionProvider, orch *gating.Orchestrator,
	contractAddress string) *PropertyService {
	return &PropertyService{
		props:           props,
		catalog:         catalog,
		contract:        contract,
		enc:             enc,
		orch:            orch,
		contractAddress: contractAddress,
	}
}

// ListingInput is the landlord's listing form.
type ListingInput struct {
	Address            string              `json:"address"`
	Rent               int                 `json:"rent"`
	Type               models.PropertyType `json:"type"`
	AvailableFrom      string              `json:"availableFrom"`
	Images             []string            `json:"images"`
	MinSeniorityMonths int                 `json:"minSeniorityMonths"`
	RequireSavings     bool                `json:"requireSavingsBuffer"`
	RequireGuarantor   bool                `json:"requireGuarantor"`
	EmploymentTypes    []string            `json:"employmentTypes"`
	MaxMissedPayments  int                 `json:"maxMissedPayments"`
	MaxOccupants       int                 `json:"maxOccupants"`
	MinTenancyDuration string              `json:"minTenancyDuration"`

	Description    string               `json:"description"`
	Amenities      []string             `json:"amenities"`
	Specs          models.PropertySpecs `json:"specs"`
	AdditionalInfo models.PropertyInfo  `json:"additionalInfo"`
}

func (s *PropertyService) buildProperty(in ListingInput, owner string) models.Property {
	employmentTypes := in.EmploymentTypes
	if len(employmentTypes) == 0 {
		employmentTypes = []string{"CDI"}
	}
	tenancy := in.MinTenancyDuration
	if tenancy == "" {
		tenancy = "Flexible"
	}
	return models.Property{
		OwnerAddress:       owner,
		Address:            in.Address,
		Rent:               in.Rent,
		Type:               in.Type,
		AvailableFrom:      in.AvailableFrom,
		Images:             in.Images,
		MinIncome:          in.Rent * incomeRentMultiple,
		MinSeniorityMonths: in.MinSeniorityMonths,
		RequireSavings:     in.RequireSavings,
		RequireGuarantor:   in.RequireGuarantor,
		EmploymentTypes:    employmentTypes,
		Features:           []string{"FHE Guarded", "On-Chain"},
		MaxMissedPayments:  in.MaxMissedPayments,
		MaxOccupants:       in.MaxOccupants,
		MinTenancyDuration: tenancy,
		Description:        in.Description,
		Amenities:          in.Amenities,
		Specs:              in.Specs,
		AdditionalInfo:     in.AdditionalInfo,
	}
}

// encryptCriteria packs the six thresholds into an encrypted input, in the
// field order the contract expects.
func (s *PropertyService) encryptCriteria(ctx context.Context, owner string, p models.Property) (chain.EncryptedInput, error) {
	minSavings := 0
	if p.RequireSavings {
		minSavings = p.Rent * savingsRentMultiple
	}
	minGuarantor := 0
	if p.RequireGuarantor {
		minGuarantor = p.Rent * guarantorRentMultiple
	}

	return s.enc.CreateEncryptedInput(s.contractAddress, owner).
		AddUint32(uint32(p.MinIncome)).
		AddUint32(uint32(p.MinSeniorityMonths)).
		AddUint32(uint32(minSavings)).
		AddUint32(uint32(minGuarantor)).
		AddUint32(uint32(p.MaxMissedPayments)).
		AddUint32(uint32(p.MaxOccupants)).
		Encrypt(ctx)
}

// CreateListing validates, encrypts the criteria, deploys on-chain and stores
// the listing (gated). A failed deploy surfaces as an error; no listing is
// stored and no mock on-chain id is invented.
func (s *PropertyService) CreateListing(ctx context.Context, owner string, in ListingInput) (models.Property, error) {
	property := s.buildProperty(in, owner)
	property.ID = "prop-" + uuid.NewString()[:8]
	property.CreatedAt = time.Now().UTC()
	if err := property.Validate(); err != nil {
		return models.Property{}, err
	}

	var created models.Property
	_, err := s.orch.Run(ctx, gating.ActionDeployListing, "property:"+property.ID,
		func(ctx context.Context, token string) error {
			input, err := s.encryptCriteria(ctx, owner, property)
			if err != nil {
				return err
			}

			receipt, err := s.contract.CreateListing(ctx, owner, chain.ListingCriteria{
				MinIncome:         uint32(property.MinIncome),
				MinSeniority:      uint32(property.MinSeniorityMonths),
				MaxMissedPayments: uint32(property.MaxMissedPayments),
				MaxOccupants:      uint32(property.MaxOccupants),
				RequireSavings:    property.RequireSavings,
				RequireGuarantor:  property.RequireGuarantor,
			}, input)
			if err != nil {
				return err
			}
			property.OnChainID = receipt.ListingID

			if err := s.props.Create(property); err != nil {
				return err
			}
			created = property
			return nil
		})
	if err != nil {
		return models.Property{}, err
	}

	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
	return created, nil
}

// UpdateListing replaces the mutable listing fields (gated, owner only). The
// on-chain id, creation time and applicant count carry over unchanged.
func (s *PropertyService) UpdateListing(ctx context.Context, owner, propertyID string, in ListingInput) (models.Property, error) {
	existing, ok := s.props.GetByID(propertyID)
	if !ok {
		return models.Property{}, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
	}
	if !strings.EqualFold(existing.OwnerAddress, owner) {
		return models.Property{}, ErrNotOwner
	}

	updated := s.buildProperty(in, existing.OwnerAddress)
	updated.ID = existing.ID
	updated.OnChainID = existing.OnChainID
	updated.CreatedAt = existing.CreatedAt
	updated.ApplicantsCount = existing.ApplicantsCount
	if updated.Description == "" {
		updated.Description = existing.Description
	}
	if len(updated.Amenities) == 0 {
		updated.Amenities = existing.Amenities
	}
	if err := updated.Validate(); err != nil {
		return models.Property{}, err
	}

	_, err := s.orch.Run(ctx, gating.ActionUpdateListing, "property:"+propertyID,
		func(ctx context.Context, token string) error {
			return s.props.Update(updated)
		})
	if err != nil {
		return models.Property{}, err
	}

	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
	return updated, nil
}

// List returns the full catalog, through the cache when one is wired.
func (s *PropertyService) List(ctx context.Context) []models.Property {
	if s.catalog != nil {
		return s.catalog.List(ctx)
	}
	return s.props.ListAll()
}

// ListForOwner returns the landlord's own listings.
func (s *PropertyService) ListForOwner(ownerAddress string) []models.Property {
	return s.props.ListForOwner(ownerAddress)
}

// Get returns one listing.
func (s *PropertyService) Get(propertyID string) (models.Property, error) {
	p, ok := s.props.GetByID(propertyID)
	if !ok {
		return models.Property{}, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
	}
	return p, nil
}
