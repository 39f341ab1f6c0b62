package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leasezero/leasezero-backend/internal/models"
)

func strictProperty() models.Property {
	return models.Property{
		Rent:               1000,
		MinIncome:          3000,
		MinSeniorityMonths: 12,
		RequireSavings:     true,
		RequireGuarantor:   false,
		MaxMissedPayments:  0,
		MaxOccupants:       2,
	}
}

func boundaryProfile() models.ConfidentialProfile {
	return models.ConfidentialProfile{
		Salary:          3000,
		SeniorityMonths: 12,
		Savings:         3000,
		GuarantorIncome: 0,
		MissedPayments:  0,
		HouseholdSize:   2,
	}
}

func TestBoundaryEqualityPasses(t *testing.T) {
	res := Evaluate(boundaryProfile(), strictProperty())

	assert.True(t, res.IsEligible)
	assert.Equal(t, Breakdown{
		Income:      true,
		Seniority:   true,
		Savings:     true,
		Guarantor:   true,
		Reliability: true,
		Capacity:    true,
	}, res.Breakdown)
}

func TestSavingsOneBelowThresholdFails(t *testing.T) {
	profile := boundaryProfile()
	profile.Savings = 2999

	res := Evaluate(profile, strictProperty())

	assert.False(t, res.IsEligible)
	assert.False(t, res.Breakdown.Savings)
	assert.True(t, res.Breakdown.Income)
	assert.True(t, res.Breakdown.Reliability)
}

func TestEachCriterionIndependent(t *testing.T) {
	property := strictProperty()
	property.RequireGuarantor = true

	cases := []struct {
		name   string
		mutate func(*models.ConfidentialProfile)
		check  func(Breakdown) bool
	}{
		{"income", func(p *models.ConfidentialProfile) { p.Salary = 2999 }, func(b Breakdown) bool { return b.Income }},
		{"seniority", func(p *models.ConfidentialProfile) { p.SeniorityMonths = 11 }, func(b Breakdown) bool { return b.Seniority }},
		{"savings", func(p *models.ConfidentialProfile) { p.Savings = 0 }, func(b Breakdown) bool { return b.Savings }},
		{"guarantor", func(p *models.ConfidentialProfile) { p.GuarantorIncome = 3999 }, func(b Breakdown) bool { return b.Guarantor }},
		{"reliability", func(p *models.ConfidentialProfile) { p.MissedPayments = 1 }, func(b Breakdown) bool { return b.Reliability }},
		{"capacity", func(p *models.ConfidentialProfile) { p.HouseholdSize = 3 }, func(b Breakdown) bool { return b.Capacity }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			profile := boundaryProfile()
			profile.GuarantorIncome = 4000 // satisfy the guarantor requirement before mutation
			c.mutate(&profile)

			res := Evaluate(profile, property)
			assert.False(t, res.IsEligible)
			assert.False(t, c.check(res.Breakdown), "only %s should fail", c.name)
		})
	}
}

func TestRequirementTogglesShortCircuit(t *testing.T) {
	property := strictProperty()
	property.RequireSavings = false
	property.RequireGuarantor = false

	profile := boundaryProfile()
	profile.Savings = 0
	profile.GuarantorIncome = 0

	res := Evaluate(profile, property)
	assert.True(t, res.Breakdown.Savings, "savings check waived when not required")
	assert.True(t, res.Breakdown.Guarantor, "guarantor check waived when not required")
	assert.True(t, res.IsEligible)
}

func TestGuarantorThresholdDerivedFromRent(t *testing.T) {
	property := strictProperty()
	property.RequireGuarantor = true
	property.Rent = 1500 // guarantor threshold becomes 6000, savings 4500

	profile := boundaryProfile()
	profile.Savings = 4500
	profile.GuarantorIncome = 5999

	res := Evaluate(profile, property)
	assert.True(t, res.Breakdown.Savings)
	assert.False(t, res.Breakdown.Guarantor)

	profile.GuarantorIncome = 6000
	assert.True(t, Evaluate(profile, property).Breakdown.Guarantor)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	profile := boundaryProfile()
	property := strictProperty()

	first := Evaluate(profile, property)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(profile, property))
	}
}
