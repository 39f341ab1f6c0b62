// Package eligibility compares a tenant's confidential profile against a
// property's requirement thresholds. The evaluation is pure and deterministic;
// it is the plaintext mirror of the comparison the FHE contract performs over
// encrypted inputs.
package eligibility

import "github.com/leasezero/leasezero-backend/internal/models"

// Breakdown is the per-criterion pass/fail result.
type Breakdown struct {
	Income      bool `json:"income"`
	Seniority   bool `json:"seniority"`
	Savings     bool `json:"savings"`
	Guarantor   bool `json:"guarantor"`
	Reliability bool `json:"reliability"`
	Capacity    bool `json:"capacity"`
}

// Result is the overall verdict plus its breakdown.
type Result struct {
	IsEligible bool      `json:"isEligible"`
	Breakdown  Breakdown `json:"breakdown"`
}

// Derived multipliers: the savings buffer and guarantor thresholds are
// computed from rent rather than stored, so requirement changes propagate.
const (
	savingsRentMultiple   = 3
	guarantorRentMultiple = 4
)

// Evaluate runs all six criteria. Equality counts as passing on every
// threshold. Savings and guarantor checks pass automatically when the
// property does not require them.
func Evaluate(profile models.ConfidentialProfile, property models.Property) Result {
	b := Breakdown{
		Income:      profile.Salary >= property.MinIncome,
		Seniority:   profile.SeniorityMonths >= property.MinSeniorityMonths,
		Savings:     !property.RequireSavings || profile.Savings >= property.Rent*savingsRentMultiple,
		Guarantor:   !property.RequireGuarantor || profile.GuarantorIncome >= property.Rent*guarantorRentMultiple,
		Reliability: profile.MissedPayments <= property.MaxMissedPayments,
		Capacity:    profile.HouseholdSize <= property.MaxOccupants,
	}
	return Result{
		IsEligible: b.Income && b.Seniority && b.Savings && b.Guarantor && b.Reliability && b.Capacity,
		Breakdown:  b,
	}
}
