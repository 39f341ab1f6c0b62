package services

import (
	"context"
	"strings"

	"github.com/leasezero/leasezero-backend/internal/chain"
	"github.com/leasezero/leasezero-backend/internal/gating"
	"github.com/leasezero/leasezero-backend/internal/models"
	"github.com/leasezero/leasezero-backend/internal/store"
)

// ProfileService manages a tenant's confidential profile through its two
// states: draft (editable) and sealed (immutable, encrypted on-chain). Sealed
// raw values never leave this service; callers only ever see the masked view.
type ProfileService struct {
	profiles store.ProfileStore
	contract chain.Contract
	enc      chain.EncryptionProvider
	orch     *gating.Orchestrator

	contractAddress string
}

func NewProfileService(profiles store.ProfileStore, contract chain.Contract,
	enc chain.EncryptionProvider, orch *gating.Orchestrator, contractAddress string) *ProfileService {
	return &ProfileService{
		profiles:        profiles,
		contract:        contract,
		enc:             enc,
		orch:            orch,
		contractAddress: contractAddress,
	}
}

// ProfileInput is the tenant's profile form.
type ProfileInput struct {
	Salary          int `json:"salary"`
	SeniorityMonths int `json:"seniorityMonths"`
	Savings         int `json:"savingsTotal"`
	GuarantorIncome int `json:"guarantorIncome"`
	MissedPayments  int `json:"missedPayments"`
	HouseholdSize   int `json:"householdSize"`
}

// SaveDraft stores or replaces the draft profile. Rejected while sealed.
func (s *ProfileService) SaveDraft(address string, in ProfileInput) (models.ProfileView, error) {
	if existing, ok := s.profiles.Get(address); ok && existing.Sealed {
		return models.ProfileView{}, ErrProfileSealed
	}

	profile := models.ConfidentialProfile{
		Address:         strings.ToLower(address),
		Salary:          in.Salary,
		SeniorityMonths: in.SeniorityMonths,
		Savings:         in.Savings,
		GuarantorIncome: in.GuarantorIncome,
		MissedPayments:  in.MissedPayments,
		HouseholdSize:   in.HouseholdSize,
	}
	if err := profile.Validate(); err != nil {
		return models.ProfileView{}, err
	}
	if err := s.profiles.Save(profile); err != nil {
		return models.ProfileView{}, err
	}
	return profile.View(), nil
}

// Seal commits the draft: the six fields are encrypted and sent to the
// contract (gated), then the profile becomes immutable until revised.
func (s *ProfileService) Seal(ctx context.Context, address string) (models.ProfileView, error) {
	profile, ok := s.profiles.Get(address)
	if !ok {
		return models.ProfileView{}, ErrNotFound
	}
	if profile.Sealed {
		return models.ProfileView{}, ErrProfileSealed
	}

	_, err := s.orch.Run(ctx, gating.ActionSealProfile, "profile:"+strings.ToLower(address),
		func(ctx context.Context, token string) error {
			input, err := s.enc.CreateEncryptedInput(s.contractAddress, address).
				AddUint32(uint32(profile.Salary)).
				AddUint32(uint32(profile.SeniorityMonths)).
				AddUint32(uint32(profile.Savings)).
				AddUint32(uint32(profile.GuarantorIncome)).
				AddUint32(uint32(profile.MissedPayments)).
				AddUint32(uint32(profile.HouseholdSize)).
				Encrypt(ctx)
			if err != nil {
				return err
			}
			if _, err := s.contract.SetProfile(ctx, address, input); err != nil {
				return err
			}

			profile.Sealed = true
			return s.profiles.Save(profile)
		})
	if err != nil {
		return models.ProfileView{}, err
	}
	return profile.View(), nil
}

// Revise re-opens a sealed profile for editing. The stored values stay; only
// the seal drops, so the tenant can adjust and re-seal.
func (s *ProfileService) Revise(address string) (models.ProfileView, error) {
	profile, ok := s.profiles.Get(address)
	if !ok {
		return models.ProfileView{}, ErrNotFound
	}
	profile.Sealed = false
	if err := s.profiles.Save(profile); err != nil {
		return models.ProfileView{}, err
	}
	return profile.View(), nil
}

// View returns the masked profile. An absent profile reads as an empty,
// unsealed view rather than an error.
func (s *ProfileService) View(address string) models.ProfileView {
	profile, ok := s.profiles.Get(address)
	if !ok {
		return models.ProfileView{Address: strings.ToLower(address)}
	}
	return profile.View()
}
