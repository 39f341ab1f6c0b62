package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasezero/leasezero-backend/internal/chain"
	"github.com/leasezero/leasezero-backend/internal/gating"
	"github.com/leasezero/leasezero-backend/internal/models"
	"github.com/leasezero/leasezero-backend/internal/store"
)

const contractAddr = "0x42699a7612a87f13F23F6D3CA6091084EEAE0952"

func autoConfirm() gating.Confirmer {
	return gating.ConfirmerFunc(func(ctx context.Context, kind gating.ActionKind) (gating.Confirmation, error) {
		return gating.Confirmation{TxHash: "0xconfirmed"}, nil
	})
}

func newPropertyService(contract chain.Contract, confirmer gating.Confirmer) (*PropertyService, *store.MemoryPropertyStore) {
	props := store.NewMemoryPropertyStore()
	svc := NewPropertyService(props, nil, contract, &chain.MockEncryptionProvider{},
		gating.NewOrchestrator(confirmer, time.Second), contractAddr)
	return svc, props
}

func validListing() ListingInput {
	return ListingInput{
		Address:            "5 Avenue Victor Hugo",
		Rent:               1200,
		Type:               models.PropertyApartment,
		Images:             []string{"img-1"},
		MinSeniorityMonths: 6,
		RequireSavings:     true,
		MaxOccupants:       3,
	}
}

func TestCreateListingDerivesCriteriaFromRent(t *testing.T) {
	svc, props := newPropertyService(chain.NewMockContract(), autoConfirm())

	created, err := svc.CreateListing(context.Background(), landlordAddr, validListing())
	require.NoError(t, err)

	assert.Equal(t, 3600, created.MinIncome, "minimum income is three months of rent")
	assert.Equal(t, "mock-1", created.OnChainID)
	assert.Equal(t, []string{"CDI"}, created.EmploymentTypes)
	assert.Equal(t, "Flexible", created.MinTenancyDuration)

	stored, ok := props.GetByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, created, stored)
}

type failingContract struct {
	*chain.MockContract
}

func (f *failingContract) CreateListing(ctx context.Context, caller string, criteria chain.ListingCriteria, input chain.EncryptedInput) (chain.Receipt, error) {
	return chain.Receipt{}, chain.ErrRejected
}

func TestFailedDeployStoresNothing(t *testing.T) {
	svc, props := newPropertyService(&failingContract{chain.NewMockContract()}, autoConfirm())

	_, err := svc.CreateListing(context.Background(), landlordAddr, validListing())
	assert.ErrorIs(t, err, chain.ErrRejected)
	assert.Empty(t, props.ListAll(), "a failed deploy must leave no listing behind")
}

func TestInvalidListingNeverReachesTheGate(t *testing.T) {
	confirmer := gating.ConfirmerFunc(func(ctx context.Context, kind gating.ActionKind) (gating.Confirmation, error) {
		t.Fatal("confirmation must not be requested for an invalid listing")
		return gating.Confirmation{}, nil
	})
	svc, props := newPropertyService(chain.NewMockContract(), confirmer)

	in := validListing()
	in.Rent = 0
	_, err := svc.CreateListing(context.Background(), landlordAddr, in)

	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Empty(t, props.ListAll())
}

func TestCancelledDeployStoresNothing(t *testing.T) {
	cancelAll := gating.ConfirmerFunc(func(ctx context.Context, kind gating.ActionKind) (gating.Confirmation, error) {
		return gating.Confirmation{}, gating.ErrCancelled
	})
	svc, props := newPropertyService(chain.NewMockContract(), cancelAll)

	_, err := svc.CreateListing(context.Background(), landlordAddr, validListing())
	assert.ErrorIs(t, err, gating.ErrCancelled)
	assert.Empty(t, props.ListAll())
}

func TestUpdateListingRequiresOwner(t *testing.T) {
	svc, _ := newPropertyService(chain.NewMockContract(), autoConfirm())
	created, err := svc.CreateListing(context.Background(), landlordAddr, validListing())
	require.NoError(t, err)

	_, err = svc.UpdateListing(context.Background(), "0xSomeoneElse", created.ID, validListing())
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestUpdateListingPreservesChainIdentity(t *testing.T) {
	svc, _ := newPropertyService(chain.NewMockContract(), autoConfirm())
	created, err := svc.CreateListing(context.Background(), landlordAddr, validListing())
	require.NoError(t, err)

	in := validListing()
	in.Rent = 1500
	updated, err := svc.UpdateListing(context.Background(), landlordAddr, created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, created.OnChainID, updated.OnChainID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 4500, updated.MinIncome, "thresholds re-derive from the new rent")
}
