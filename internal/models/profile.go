package models

// UserRole distinguishes the two portal identities.
type UserRole string

const (
	RoleTenant   UserRole = "tenant"
	RoleLandlord UserRole = "landlord"
)

// ConfidentialProfile holds a tenant's private financial fields. While sealed
// it is immutable and its raw values must never leave the server; callers get
// a ProfileView instead.
type ConfidentialProfile struct {
	Address         string `json:"address"`
	Salary          int    `json:"salary"`
	SeniorityMonths int    `json:"seniorityMonths"`
	Savings         int    `json:"savingsTotal"`
	GuarantorIncome int    `json:"guarantorIncome"`
	MissedPayments  int    `json:"missedPayments"`
	HouseholdSize   int    `json:"householdSize"`
	Sealed          bool   `json:"sealed"`
}

// ProfileView is the masked representation of a sealed profile: it tells the
// caller which fields are set without exposing their values.
type ProfileView struct {
	Address      string `json:"address"`
	Sealed       bool   `json:"sealed"`
	SalarySet    bool   `json:"salarySet"`
	SenioritySet bool   `json:"senioritySet"`
	SavingsSet   bool   `json:"savingsSet"`
	GuarantorSet bool   `json:"guarantorSet"`
	MissedSet    bool   `json:"missedPaymentsSet"`
	HouseholdSet bool   `json:"householdSizeSet"`
}

// View masks p into its sealed representation. Zero counts as unset for every
// field except missed payments and household size, where zero is a meaningful
// declared value once the profile has been sealed.
func (p *ConfidentialProfile) View() ProfileView {
	return ProfileView{
		Address:      p.Address,
		Sealed:       p.Sealed,
		SalarySet:    p.Salary > 0,
		SenioritySet: p.SeniorityMonths > 0,
		SavingsSet:   p.Savings > 0,
		GuarantorSet: p.GuarantorIncome > 0,
		MissedSet:    p.Sealed,
		HouseholdSet: p.HouseholdSize > 0,
	}
}

// Validate rejects negative values; all profile fields are counts or amounts.
func (p *ConfidentialProfile) Validate() error {
	if p.Salary < 0 || p.SeniorityMonths < 0 || p.Savings < 0 ||
		p.GuarantorIncome < 0 || p.MissedPayments < 0 || p.HouseholdSize < 0 {
		return &ValidationError{Field: "profile", Message: "profile fields cannot be negative"}
	}
	return nil
}
