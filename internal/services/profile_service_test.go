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

func newProfileService(confirmer gating.Confirmer) (*ProfileService, *store.MemoryProfileStore) {
	profiles := store.NewMemoryProfileStore()
	svc := NewProfileService(profiles, chain.NewMockContract(), &chain.MockEncryptionProvider{},
		gating.NewOrchestrator(confirmer, time.Second), contractAddr)
	return svc, profiles
}

func draftInput() ProfileInput {
	return ProfileInput{
		Salary:          3200,
		SeniorityMonths: 18,
		Savings:         9000,
		HouseholdSize:   2,
	}
}

func TestDraftSealReviseCycle(t *testing.T) {
	svc, _ := newProfileService(autoConfirm())
	ctx := context.Background()

	view, err := svc.SaveDraft(tenantAddr, draftInput())
	require.NoError(t, err)
	assert.False(t, view.Sealed)
	assert.True(t, view.SalarySet)
	assert.False(t, view.GuarantorSet)

	view, err = svc.Seal(ctx, tenantAddr)
	require.NoError(t, err)
	assert.True(t, view.Sealed)

	// Sealed profiles reject edits until revised.
	_, err = svc.SaveDraft(tenantAddr, draftInput())
	assert.ErrorIs(t, err, ErrProfileSealed)

	view, err = svc.Revise(tenantAddr)
	require.NoError(t, err)
	assert.False(t, view.Sealed)
	assert.True(t, view.SalarySet, "values survive a revise")

	_, err = svc.SaveDraft(tenantAddr, draftInput())
	assert.NoError(t, err)
}

func TestSealWithoutDraftFails(t *testing.T) {
	svc, _ := newProfileService(autoConfirm())
	_, err := svc.Seal(context.Background(), tenantAddr)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelledSealLeavesDraftUnsealed(t *testing.T) {
	cancelAll := gating.ConfirmerFunc(func(ctx context.Context, kind gating.ActionKind) (gating.Confirmation, error) {
		return gating.Confirmation{}, gating.ErrCancelled
	})
	svc, profiles := newProfileService(cancelAll)

	_, err := svc.SaveDraft(tenantAddr, draftInput())
	require.NoError(t, err)

	_, err = svc.Seal(context.Background(), tenantAddr)
	assert.ErrorIs(t, err, gating.ErrCancelled)

	stored, ok := profiles.Get(tenantAddr)
	require.True(t, ok)
	assert.False(t, stored.Sealed)
}

func TestDraftRejectsNegativeFigures(t *testing.T) {
	svc, _ := newProfileService(autoConfirm())

	in := draftInput()
	in.Salary = -1
	_, err := svc.SaveDraft(tenantAddr, in)

	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestViewNeverExposesFigures(t *testing.T) {
	svc, _ := newProfileService(autoConfirm())
	_, err := svc.SaveDraft(tenantAddr, draftInput())
	require.NoError(t, err)

	view := svc.View(tenantAddr)
	assert.True(t, view.SavingsSet)
	assert.False(t, view.MissedSet, "missed payments only read as set once sealed")

	// Absent profiles read as an empty unsealed view.
	empty := svc.View("0xUnknown")
	assert.False(t, empty.Sealed)
	assert.False(t, empty.SalarySet)
}
