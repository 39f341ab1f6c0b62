package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasezero/leasezero-backend/internal/chain"
	"github.com/leasezero/leasezero-backend/internal/gating"
	"github.com/leasezero/leasezero-backend/internal/lifecycle"
	"github.com/leasezero/leasezero-backend/internal/models"
	"github.com/leasezero/leasezero-backend/internal/store"
)

const (
	tenantAddr   = "0xTenant"
	landlordAddr = "0xLandlord"
)

type fixture struct {
	apps     *store.MemoryApplicationStore
	props    *store.MemoryPropertyStore
	profiles *store.MemoryProfileStore
	svc      *ApplicationService
}

func newFixture(t *testing.T, confirmer gating.Confirmer) *fixture {
	t.Helper()
	if confirmer == nil {
		confirmer = gating.ConfirmerFunc(func(ctx context.Context, kind gating.ActionKind) (gating.Confirmation, error) {
			return gating.Confirmation{TxHash: "0xconfirmed"}, nil
		})
	}

	f := &fixture{
		apps:     store.NewMemoryApplicationStore(),
		props:    store.NewMemoryPropertyStore(),
		profiles: store.NewMemoryProfileStore(),
	}
	f.svc = NewApplicationService(f.apps, f.props, f.profiles,
		chain.NewMockContract(), gating.NewOrchestrator(confirmer, time.Second), nil, nil)

	require.NoError(t, f.props.Create(models.Property{
		ID:                 "p1",
		OwnerAddress:       landlordAddr,
		Address:            "12 Rue de la Paix",
		Rent:               1000,
		Type:               models.PropertyApartment,
		Images:             []string{"img"},
		MinIncome:          3000,
		MinSeniorityMonths: 12,
		RequireSavings:     true,
		MaxMissedPayments:  0,
		MaxOccupants:       2,
	}))
	require.NoError(t, f.profiles.Save(models.ConfidentialProfile{
		Address:         "0xtenant",
		Salary:          3000,
		SeniorityMonths: 12,
		Savings:         3000,
		HouseholdSize:   2,
		Sealed:          true,
	}))
	return f
}

func (f *fixture) apply(t *testing.T) models.Application {
	t.Helper()
	app, err := f.svc.Apply(context.Background(), tenantAddr, ApplyInput{PropertyID: "p1", Occupants: 2})
	require.NoError(t, err)
	return app
}

func TestApplyCreatesInitialApplication(t *testing.T) {
	f := newFixture(t, nil)

	app := f.apply(t)
	assert.Equal(t, models.StatusApplied, app.Status)
	assert.Equal(t, "p1", app.PropertyID)
	assert.True(t, app.IsEligibleFHE)
	assert.Regexp(t, `^Applicant #\d{4}$`, app.AnonymousID)

	stored, ok := f.apps.GetByID(app.ID)
	require.True(t, ok)
	assert.Equal(t, app, stored)
}

func TestApplyRequiresSealedProfile(t *testing.T) {
	f := newFixture(t, nil)
	profile, _ := f.profiles.Get(tenantAddr)
	profile.Sealed = false
	require.NoError(t, f.profiles.Save(profile))

	_, err := f.svc.Apply(context.Background(), tenantAddr, ApplyInput{PropertyID: "p1"})
	assert.ErrorIs(t, err, ErrProfileNotSealed)
}

func TestApplyRejectsIneligibleProfile(t *testing.T) {
	f := newFixture(t, nil)
	profile, _ := f.profiles.Get(tenantAddr)
	profile.Salary = 2999
	require.NoError(t, f.profiles.Save(profile))

	_, err := f.svc.Apply(context.Background(), tenantAddr, ApplyInput{PropertyID: "p1"})
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.Empty(t, f.apps.ListAll())
}

func TestSecondActiveApplicationRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.apply(t)

	_, err := f.svc.Apply(context.Background(), tenantAddr, ApplyInput{PropertyID: "p1"})
	assert.ErrorIs(t, err, ErrActiveApplicationExists)
	assert.Len(t, f.apps.ListAll(), 1)
}

func TestNewApplicationAllowedAfterTerminalState(t *testing.T) {
	f := newFixture(t, nil)
	first := f.apply(t)

	_, err := f.svc.Reject(context.Background(), landlordAddr, first.ID)
	require.NoError(t, err)

	second, err := f.svc.Apply(context.Background(), tenantAddr, ApplyInput{PropertyID: "p1"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestFullHappyPath(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	app := f.apply(t)

	app, err := f.svc.RequestVerification(ctx, landlordAddr, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerificationRequested, app.Status)

	app, err = f.svc.SubmitDocuments(ctx, tenantAddr, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDocsSubmitted, app.Status)
	assert.NotEmpty(t, app.DocHash)
	assert.Equal(t, "0xconfirmed", app.VerificationTx)
	assert.False(t, app.IsVerifiedOnChain)

	app, err = f.svc.VerifyDocuments(ctx, landlordAddr, app.ID)
	require.NoError(t, err)
	assert.True(t, app.IsDocumentVerified)
	assert.Equal(t, models.StatusDocsSubmitted, app.Status, "document check is not a transition")

	app, err = f.svc.ApproveAttestation(ctx, landlordAddr, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, app.Status)
	assert.True(t, app.IsVerifiedOnChain)

	app, err = f.svc.Acknowledge(ctx, tenantAddr, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAcknowledged, app.Status)
}

func TestIllegalTransitionLeavesStoredStatus(t *testing.T) {
	f := newFixture(t, nil)
	app := f.apply(t)

	// applied -> approved skips the verification round trip.
	_, err := f.svc.ApproveAttestation(context.Background(), landlordAddr, app.ID)
	require.Error(t, err)

	var ite *lifecycle.InvalidTransitionError
	assert.True(t, errors.As(err, &ite))

	stored, _ := f.apps.GetByID(app.ID)
	assert.Equal(t, models.StatusApplied, stored.Status)
}

func TestCancelledGateLeavesStoreUntouched(t *testing.T) {
	cancelAll := gating.ConfirmerFunc(func(ctx context.Context, kind gating.ActionKind) (gating.Confirmation, error) {
		return gating.Confirmation{}, gating.ErrCancelled
	})
	f := newFixture(t, cancelAll)

	_, err := f.svc.Apply(context.Background(), tenantAddr, ApplyInput{PropertyID: "p1"})
	assert.ErrorIs(t, err, gating.ErrCancelled)
	assert.Empty(t, f.apps.ListAll(), "no application may be created on cancel")
}

func TestRejectedPaymentLeavesTransitionUnapplied(t *testing.T) {
	f := newFixture(t, nil)
	app := f.apply(t)

	deny := gating.ConfirmerFunc(func(ctx context.Context, kind gating.ActionKind) (gating.Confirmation, error) {
		return gating.Confirmation{}, chain.ErrRejected
	})
	f.svc.orch = gating.NewOrchestrator(deny, time.Second)

	_, err := f.svc.RequestVerification(context.Background(), landlordAddr, app.ID)
	assert.ErrorIs(t, err, chain.ErrRejected)

	stored, _ := f.apps.GetByID(app.ID)
	assert.Equal(t, models.StatusApplied, stored.Status)
}

func TestLandlordActionsRequireOwnership(t *testing.T) {
	f := newFixture(t, nil)
	app := f.apply(t)

	_, err := f.svc.RequestVerification(context.Background(), "0xSomeoneElse", app.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestTenantActionsRequireOwnApplication(t *testing.T) {
	f := newFixture(t, nil)
	app := f.apply(t)
	_, err := f.svc.RequestVerification(context.Background(), landlordAddr, app.ID)
	require.NoError(t, err)

	_, err = f.svc.SubmitDocuments(context.Background(), "0xImposter", app.ID)
	assert.ErrorIs(t, err, ErrNotYourApplication)
}

func TestEvaluateEligibilityMockListingSkipsChain(t *testing.T) {
	deny := gating.ConfirmerFunc(func(ctx context.Context, kind gating.ActionKind) (gating.Confirmation, error) {
		t.Fatal("confirmation must not be requested for a mock listing")
		return gating.Confirmation{}, nil
	})
	f := newFixture(t, deny)

	res, err := f.svc.EvaluateEligibility(context.Background(), tenantAddr, "p1")
	require.NoError(t, err)
	assert.True(t, res.IsEligible)
}

func TestEvaluateEligibilityOnChainListingIsGated(t *testing.T) {
	var confirmed bool
	f := newFixture(t, gating.ConfirmerFunc(func(ctx context.Context, kind gating.ActionKind) (gating.Confirmation, error) {
		confirmed = true
		return gating.Confirmation{TxHash: "0xfee"}, nil
	}))

	p, _ := f.props.GetByID("p1")
	p.OnChainID = "42"
	require.NoError(t, f.props.Update(p))

	res, err := f.svc.EvaluateEligibility(context.Background(), tenantAddr, "p1")
	require.NoError(t, err)
	assert.True(t, res.IsEligible)
	assert.True(t, confirmed, "on-chain eligibility check must pass the gate")
	assert.NotEmpty(t, res.ChainCheckID)

	txHash, err := f.svc.RevealEligibility(context.Background(), tenantAddr, res.ChainCheckID)
	require.NoError(t, err)
	assert.NotEmpty(t, txHash)
}

func TestListForLandlordScopedToOwnedProperties(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.props.Create(models.Property{ID: "p2", OwnerAddress: "0xOther", Rent: 500}))
	app := f.apply(t)

	mine := f.svc.ListForLandlord(landlordAddr)
	require.Len(t, mine, 1)
	assert.Equal(t, app.ID, mine[0].ID)

	assert.Empty(t, f.svc.ListForLandlord("0xOther"))
}
