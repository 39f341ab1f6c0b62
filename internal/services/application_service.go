package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leasezero/leasezero-backend/internal/chain"
	"github.com/leasezero/leasezero-backend/internal/eligibility"
	"github.com/leasezero/leasezero-backend/internal/gating"
	"github.com/leasezero/leasezero-backend/internal/lifecycle"
	"github.com/leasezero/leasezero-backend/internal/models"
	"github.com/leasezero/leasezero-backend/internal/reputation"
	"github.com/leasezero/leasezero-backend/internal/store"
	"github.com/leasezero/leasezero-backend/pkg/utils"
)

// ApplicationService implements both portals' application operations: apply,
// the lifecycle transitions, and eligibility checks. Every state-mutating
// operation that carries a payment gate runs through the orchestrator; the
// rest mutate directly.
type ApplicationService struct {
	apps     store.ApplicationStore
	props    store.PropertyStore
	profiles store.ProfileStore
	contract chain.Contract
	orch     *gating.Orchestrator
	hub      *Hub
	audit    *AuditLog
}

func NewApplicationService(apps store.ApplicationStore, props store.PropertyStore,
	profiles store.ProfileStore, contract chain.Contract, orch *gating.Orchestrator,
	hub *Hub, audit *AuditLog) *ApplicationService {
	return &ApplicationService{
		apps:     apps,
		props:    props,
		profiles: profiles,
		contract: contract,
		orch:     orch,
		hub:      hub,
		audit:    audit,
	}
}

// EligibilityCheck is an evaluation outcome. ChainCheckID identifies the
// on-chain encrypted comparison when one ran, for a later public reveal.
type EligibilityCheck struct {
	eligibility.Result
	ChainCheckID string `json:"chainCheckId,omitempty"`
}

// EvaluateEligibility runs the local evaluator for a tenant against a
// property. When the listing is on-chain, the encrypted comparison is also
// triggered (gated), but the returned breakdown always comes from the local
// plaintext mirror; the contract only ever yields an opaque verdict handle.
func (s *ApplicationService) EvaluateEligibility(ctx context.Context, tenantAddress, propertyID string) (EligibilityCheck, error) {
	property, ok := s.props.GetByID(propertyID)
	if !ok {
		return EligibilityCheck{}, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
	}
	profile, ok := s.profiles.Get(tenantAddress)
	if !ok {
		return EligibilityCheck{}, ErrProfileNotSealed
	}
	if !profile.Sealed {
		return EligibilityCheck{}, ErrProfileNotSealed
	}

	check := EligibilityCheck{Result: eligibility.Evaluate(profile, property)}

	// Listings without an on-chain id are mock listings; skip the contract
	// round trip entirely.
	if property.OnChainID == "" {
		return check, nil
	}

	_, err := s.orch.Run(ctx, gating.ActionCheckEligibility, "eligibility:"+strings.ToLower(tenantAddress),
		func(ctx context.Context, token string) error {
			receipt, err := s.contract.CheckEligibility(ctx, tenantAddress, property.OnChainID)
			if err != nil {
				return err
			}
			check.ChainCheckID = receipt.ApplicationID
			return nil
		})
	if err != nil {
		return EligibilityCheck{}, err
	}
	return check, nil
}

// RevealEligibility publishes the encrypted verdict of a previous on-chain
// check so the tenant can share it: fetch the verdict handle, request the
// reveal, then finalize it. Returns the finalize transaction hash.
func (s *ApplicationService) RevealEligibility(ctx context.Context, tenantAddress, chainCheckID string) (string, error) {
	handle, err := s.contract.GetEligibilityResult(ctx, chainCheckID)
	if err != nil {
		return "", err
	}
	if _, err := s.contract.RequestPublicReveal(ctx, tenantAddress, chainCheckID); err != nil {
		return "", err
	}
	receipt, err := s.contract.FinalizePublicReveal(ctx, tenantAddress, chainCheckID, handle, "")
	if err != nil {
		return "", err
	}
	return receipt.TxHash, nil
}

// ApplyInput is the tenant's application form.
type ApplyInput struct {
	PropertyID string `json:"propertyId"`
	Occupants  int    `json:"occupants"`
	MoveInDate string `json:"moveInDate"`
}

// Apply creates a new application in the initial status. The one-active-
// application rule is enforced here, inside the per-tenant serialization
// window, so two racing applies cannot both pass the check.
func (s *ApplicationService) Apply(ctx context.Context, tenantAddress string, in ApplyInput) (models.Application, error) {
	property, ok := s.props.GetByID(in.PropertyID)
	if !ok {
		return models.Application{}, fmt.Errorf("property %s: %w", in.PropertyID, ErrNotFound)
	}
	profile, ok := s.profiles.Get(tenantAddress)
	if !ok || !profile.Sealed {
		return models.Application{}, ErrProfileNotSealed
	}

	result := eligibility.Evaluate(profile, property)
	if !result.IsEligible {
		return models.Application{}, ErrNotEligible
	}

	occupants := in.Occupants
	if occupants <= 0 {
		occupants = 1
	}
	moveIn := in.MoveInDate
	if moveIn == "" {
		moveIn = time.Now().UTC().Format(time.RFC3339)
	}

	var created models.Application
	_, err := s.orch.Run(ctx, gating.ActionApply, "tenant:"+strings.ToLower(tenantAddress),
		func(ctx context.Context, token string) error {
			for _, existing := range s.apps.ListForTenant(tenantAddress) {
				if lifecycle.IsActive(existing.Status) {
					return ErrActiveApplicationExists
				}
			}

			created = models.Application{
				ID:            uuid.NewString(),
				PropertyID:    property.ID,
				TenantAddress: tenantAddress,
				Status:        lifecycle.Initial,
				Timestamp:     time.Now().UTC(),
				AnonymousID:   anonymousID(),
				Occupants:     occupants,
				MoveInDate:    moveIn,
				IsEligibleFHE: true,
			}
			return s.apps.Upsert(created)
		})
	if err != nil {
		return models.Application{}, err
	}

	s.notify(ctx, created, "", lifecycle.Initial, lifecycle.ActorTenant, "")
	return created, nil
}

// anonymousID generates the display pseudonym shown to landlords,
// "Applicant #1000".."#9999".
func anonymousID() string {
	return fmt.Sprintf("Applicant #%d", rand.Intn(9000)+1000)
}

// RequestVerification moves applied -> verification_requested (landlord,
// gated).
func (s *ApplicationService) RequestVerification(ctx context.Context, landlordAddress, appID string) (models.Application, error) {
	return s.gatedTransition(ctx, gating.ActionVerifyRequest, landlordAddress, appID,
		lifecycle.ActorLandlord, models.StatusVerificationRequested, nil)
}

// Reject moves applied -> rejected (landlord declines outright, not gated).
func (s *ApplicationService) Reject(ctx context.Context, landlordAddress, appID string) (models.Application, error) {
	return s.directTransition(ctx, landlordAddress, appID, lifecycle.ActorLandlord, models.StatusRejected)
}

// SubmitDocuments hashes the tenant's verification material, submits the hash
// on-chain and moves verification_requested -> docs_submitted (gated). A
// failed chain submission is a hard error: the transition does not happen and
// no success is fabricated.
func (s *ApplicationService) SubmitDocuments(ctx context.Context, tenantAddress, appID string) (models.Application, error) {
	docHash := utils.DocumentHash(appID, tenantAddress, time.Now().UTC())

	return s.gatedTransition(ctx, gating.ActionSubmitDocs, tenantAddress, appID,
		lifecycle.ActorTenant, models.StatusDocsSubmitted,
		func(ctx context.Context, app *models.Application, token string) error {
			property, _ := s.props.GetByID(app.PropertyID)
			if property.OnChainID != "" {
				if _, err := s.contract.SubmitDocumentHash(ctx, tenantAddress, property.OnChainID, docHash); err != nil {
					return err
				}
			}
			app.DocHash = docHash
			app.VerificationTx = token
			app.IsVerifiedOnChain = false
			return nil
		})
}

// VerifyDocuments records the landlord's off-chain document check. It is a
// flag on the record, not a lifecycle transition.
func (s *ApplicationService) VerifyDocuments(ctx context.Context, landlordAddress, appID string) (models.Application, error) {
	app, err := s.landlordApplication(landlordAddress, appID)
	if err != nil {
		return models.Application{}, err
	}
	if app.Status != models.StatusDocsSubmitted {
		return models.Application{}, &lifecycle.InvalidTransitionError{
			From: app.Status, To: app.Status, Actor: lifecycle.ActorLandlord,
		}
	}

	app.IsDocumentVerified = true
	if err := s.apps.Upsert(app); err != nil {
		return models.Application{}, err
	}
	if s.hub != nil {
		s.hub.BroadcastApplication(app)
	}
	return app, nil
}

// ApproveAttestation attests the document hash on-chain and moves
// docs_submitted -> approved (landlord, gated).
func (s *ApplicationService) ApproveAttestation(ctx context.Context, landlordAddress, appID string) (models.Application, error) {
	return s.gatedTransition(ctx, gating.ActionApproveAttestation, landlordAddress, appID,
		lifecycle.ActorLandlord, models.StatusApproved,
		func(ctx context.Context, app *models.Application, token string) error {
			property, _ := s.props.GetByID(app.PropertyID)
			if property.OnChainID != "" {
				if _, err := s.contract.ApproveAttestation(ctx, landlordAddress, property.OnChainID, app.TenantAddress); err != nil {
					return err
				}
			}
			app.IsVerifiedOnChain = true
			return nil
		})
}

// Acknowledge moves approved -> acknowledged (tenant accepts the lease).
func (s *ApplicationService) Acknowledge(ctx context.Context, tenantAddress, appID string) (models.Application, error) {
	return s.directTransition(ctx, tenantAddress, appID, lifecycle.ActorTenant, models.StatusAcknowledged)
}

// Withdraw moves approved -> withdrawn (tenant declines the offer).
func (s *ApplicationService) Withdraw(ctx context.Context, tenantAddress, appID string) (models.Application, error) {
	return s.directTransition(ctx, tenantAddress, appID, lifecycle.ActorTenant, models.StatusWithdrawn)
}

// ListForTenant returns the tenant's own applications.
func (s *ApplicationService) ListForTenant(tenantAddress string) []models.Application {
	return s.apps.ListForTenant(tenantAddress)
}

// ListForLandlord returns all applications against the landlord's properties.
func (s *ApplicationService) ListForLandlord(landlordAddress string) []models.Application {
	properties := s.props.ListForOwner(landlordAddress)
	ids := make([]string, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}
	return s.apps.ListForProperties(ids)
}

// TenantReputation scores a tenant from their full application history.
func (s *ApplicationService) TenantReputation(tenantAddress string) reputation.Reputation {
	return reputation.Tenant(tenantAddress, s.apps.ListAll())
}

// LandlordReputation scores a landlord from decisions on their own listings.
func (s *ApplicationService) LandlordReputation(landlordAddress string) reputation.Reputation {
	properties := s.props.ListForOwner(landlordAddress)
	ids := make([]string, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}
	return reputation.Landlord(ids, s.apps.ListAll())
}

// TransitionHistory returns the audit trail for an application, oldest first.
// Empty when no audit sink is configured.
func (s *ApplicationService) TransitionHistory(ctx context.Context, appID string) ([]TransitionRecord, error) {
	if s.audit == nil {
		return nil, nil
	}
	return s.audit.History(ctx, appID)
}

// mutator augments a transition with extra record changes and chain calls;
// it runs inside the gated continuation, before the record is persisted.
type mutator func(ctx context.Context, app *models.Application, token string) error

func (s *ApplicationService) gatedTransition(ctx context.Context, kind gating.ActionKind,
	actorAddress, appID string, actor lifecycle.Actor, to models.ApplicationStatus,
	mutate mutator) (models.Application, error) {

	var updated models.Application
	_, err := s.orch.Run(ctx, kind, "application:"+appID,
		func(ctx context.Context, token string) error {
			app, from, err := s.checkedTransition(actorAddress, appID, actor, to)
			if err != nil {
				return err
			}
			if mutate != nil {
				if err := mutate(ctx, &app, token); err != nil {
					return err
				}
			}
			if err := s.apps.Upsert(app); err != nil {
				return err
			}
			updated = app
			s.notify(ctx, app, from, to, actor, token)
			return nil
		})
	if err != nil {
		return models.Application{}, err
	}
	return updated, nil
}

func (s *ApplicationService) directTransition(ctx context.Context, actorAddress, appID string,
	actor lifecycle.Actor, to models.ApplicationStatus) (models.Application, error) {

	app, from, err := s.checkedTransition(actorAddress, appID, actor, to)
	if err != nil {
		return models.Application{}, err
	}
	if err := s.apps.Upsert(app); err != nil {
		return models.Application{}, err
	}
	s.notify(ctx, app, from, to, actor, "")
	return app, nil
}

// checkedTransition loads the application, verifies the actor may touch it,
// and applies the state machine. The stored record is untouched on rejection.
func (s *ApplicationService) checkedTransition(actorAddress, appID string,
	actor lifecycle.Actor, to models.ApplicationStatus) (models.Application, models.ApplicationStatus, error) {

	var app models.Application
	var err error
	switch actor {
	case lifecycle.ActorTenant:
		app, err = s.tenantApplication(actorAddress, appID)
	case lifecycle.ActorLandlord:
		app, err = s.landlordApplication(actorAddress, appID)
	}
	if err != nil {
		return models.Application{}, "", err
	}

	from := app.Status
	next, err := lifecycle.Transition(app.Status, to, actor)
	if err != nil {
		return models.Application{}, "", err
	}
	app.Status = next
	return app, from, nil
}

func (s *ApplicationService) tenantApplication(tenantAddress, appID string) (models.Application, error) {
	app, ok := s.apps.GetByID(appID)
	if !ok {
		return models.Application{}, fmt.Errorf("application %s: %w", appID, ErrNotFound)
	}
	if !strings.EqualFold(app.TenantAddress, tenantAddress) {
		return models.Application{}, ErrNotYourApplication
	}
	return app, nil
}

func (s *ApplicationService) landlordApplication(landlordAddress, appID string) (models.Application, error) {
	app, ok := s.apps.GetByID(appID)
	if !ok {
		return models.Application{}, fmt.Errorf("application %s: %w", appID, ErrNotFound)
	}
	property, ok := s.props.GetByID(app.PropertyID)
	if !ok {
		return models.Application{}, fmt.Errorf("property %s: %w", app.PropertyID, ErrNotFound)
	}
	if !strings.EqualFold(property.OwnerAddress, landlordAddress) {
		return models.Application{}, ErrNotOwner
	}
	return app, nil
}

// notify fans the accepted mutation out to the audit trail and the websocket
// hub. Both are best effort and never block or fail the mutation.
func (s *ApplicationService) notify(ctx context.Context, app models.Application,
	from, to models.ApplicationStatus, actor lifecycle.Actor, token string) {

	if s.audit != nil {
		s.audit.RecordTransitionAsync(TransitionRecord{
			ApplicationID: app.ID,
			PropertyID:    app.PropertyID,
			TenantAddress: strings.ToLower(app.TenantAddress),
			From:          string(from),
			To:            string(to),
			Actor:         string(actor),
			TxHash:        token,
			Timestamp:     time.Now().UTC(),
		})
	}
	if s.hub != nil {
		s.hub.BroadcastApplication(app)
	}
}
