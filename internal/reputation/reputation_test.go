package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leasezero/leasezero-backend/internal/models"
)

func app(tenant, propertyID string, status models.ApplicationStatus) models.Application {
	return models.Application{
		ID:            tenant + "-" + propertyID + "-" + string(status),
		PropertyID:    propertyID,
		TenantAddress: tenant,
		Status:        status,
	}
}

func TestTenantNeutralPrior(t *testing.T) {
	rep := Tenant("0xNewTenant", nil)
	assert.Equal(t, 75, rep.Score)
	assert.Equal(t, "Neutral", rep.Status)
	assert.Equal(t, "yellow", rep.Color)
}

func TestTenantSingleCompletedApplication(t *testing.T) {
	apps := []models.Application{app("0xabc", "p1", models.StatusAcknowledged)}

	rep := Tenant("0xabc", apps)
	// 75 + 5 (acknowledged) + 2 (reached docs submission) = 82
	assert.Equal(t, 82, rep.Score)
	assert.Equal(t, "Trusted", rep.Status)
}

func TestTenantAddressMatchIsCaseInsensitive(t *testing.T) {
	apps := []models.Application{app("0xABCDEF", "p1", models.StatusWithdrawn)}

	rep := Tenant("0xabcdef", apps)
	assert.Equal(t, 65, rep.Score, "withdrawn history must be found regardless of address case")
}

func TestTenantScoreClampedLow(t *testing.T) {
	var apps []models.Application
	for i := 0; i < 20; i++ {
		apps = append(apps, app("0xabc", "p1", models.StatusWithdrawn))
	}

	rep := Tenant("0xabc", apps)
	assert.Equal(t, 0, rep.Score)
	assert.Equal(t, "Caution", rep.Status)
	assert.Equal(t, "red", rep.Color)
}

func TestTenantScoreClampedHigh(t *testing.T) {
	var apps []models.Application
	for i := 0; i < 20; i++ {
		apps = append(apps, app("0xabc", "p1", models.StatusAcknowledged))
	}

	rep := Tenant("0xabc", apps)
	assert.Equal(t, 100, rep.Score)
}

func TestTenantRejectionsMinorPenalty(t *testing.T) {
	apps := []models.Application{
		app("0xabc", "p1", models.StatusRejected),
		app("0xabc", "p2", models.StatusRejected),
	}

	rep := Tenant("0xabc", apps)
	assert.Equal(t, 71, rep.Score)
	assert.Equal(t, "Neutral", rep.Status)
}

func TestLandlordNeutralWithoutVerifications(t *testing.T) {
	apps := []models.Application{
		app("0xabc", "p1", models.StatusApplied),
		app("0xdef", "p1", models.StatusApplied),
	}

	rep := Landlord([]string{"p1"}, apps)
	assert.Equal(t, 75, rep.Score)
	assert.Equal(t, "Neutral", rep.Status)
}

func TestLandlordAllApproved(t *testing.T) {
	apps := []models.Application{
		app("0xa", "p1", models.StatusApproved),
		app("0xb", "p1", models.StatusAcknowledged),
	}

	// approvalRatio 1.0, rejectionRatio 0 -> 100
	rep := Landlord([]string{"p1"}, apps)
	assert.Equal(t, 100, rep.Score)
	assert.Equal(t, "Trusted", rep.Status)
}

func TestLandlordMixedHistory(t *testing.T) {
	apps := []models.Application{
		app("0xa", "p1", models.StatusApproved),
		app("0xb", "p1", models.StatusRejected),
		app("0xc", "p2", models.StatusDocsSubmitted),
		app("0xd", "p2", models.StatusVerificationRequested),
	}

	// 4 verifications requested, 1 approved, 1 rejected:
	// 50 + 50*0.25 - 25*0.25 = 56.25 -> 56
	rep := Landlord([]string{"p1", "p2"}, apps)
	assert.Equal(t, 56, rep.Score)
	assert.Equal(t, "Caution", rep.Status)
}

func TestLandlordIgnoresOtherProperties(t *testing.T) {
	apps := []models.Application{
		app("0xa", "other", models.StatusRejected),
		app("0xb", "other", models.StatusRejected),
	}

	rep := Landlord([]string{"p1"}, apps)
	assert.Equal(t, 75, rep.Score, "foreign applications must not affect the score")
}

func TestLandlordAllRejectedClamped(t *testing.T) {
	var apps []models.Application
	for i := 0; i < 5; i++ {
		apps = append(apps, app("0xa", "p1", models.StatusRejected))
	}

	// 50 + 0 - 25 = 25, inside bounds; still banded as Caution.
	rep := Landlord([]string{"p1"}, apps)
	assert.Equal(t, 25, rep.Score)
	assert.Equal(t, "Caution", rep.Status)
	assert.GreaterOrEqual(t, rep.Score, 0)
	assert.LessOrEqual(t, rep.Score, 100)
}

func TestBadgeBoundaries(t *testing.T) {
	assert.Equal(t, "Trusted", Badge(80).Status)
	assert.Equal(t, "Neutral", Badge(79).Status)
	assert.Equal(t, "Neutral", Badge(60).Status)
	assert.Equal(t, "Caution", Badge(59).Status)

	assert.Equal(t, 100, Badge(140).Score)
	assert.Equal(t, 0, Badge(-10).Score)
}
