// Package gating sequences a confirmation/payment step in front of every
// state-mutating action. The guarded mutation runs at most once, only after
// the confirmation resolves successfully; on cancel, rejection, failure or
// timeout it never runs at all.
package gating

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/leasezero/leasezero-backend/internal/chain"
)

// ActionKind names the operation being gated, for confirmation prompts and
// audit records.
type ActionKind string

const (
	ActionSealProfile        ActionKind = "SEAL_PROFILE"
	ActionCheckEligibility   ActionKind = "CHECK_ELIGIBILITY"
	ActionApply              ActionKind = "APPLY"
	ActionSubmitDocs         ActionKind = "SUBMIT_DOCS"
	ActionDeployListing      ActionKind = "DEPLOY_LISTING"
	ActionUpdateListing      ActionKind = "UPDATE_LISTING"
	ActionVerifyRequest      ActionKind = "VERIFY_REQUEST"
	ActionApproveAttestation ActionKind = "APPROVE_ATTESTATION"
)

// Phase is the orchestrator's observable state for a given action.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseProcessing Phase = "processing"
	PhaseSuccess    Phase = "success"
	PhaseError      Phase = "error"
)

var (
	// ErrCancelled: the user closed the confirmation before resolving it.
	ErrCancelled = errors.New("gated action cancelled")
	// ErrTimeout: the confirmation did not resolve within the bounded wait.
	ErrTimeout = errors.New("gated action timed out")
)

// Confirmation is the successful outcome of the confirmation step, carrying
// the correlation token handed to the continuation.
type Confirmation struct {
	TxHash string
}

// Confirmer runs the confirmation/payment step. Implementations block until
// the user confirms (returning the correlation token), cancels (ErrCancelled)
// or the step fails with one of the chain sentinels.
type Confirmer interface {
	Confirm(ctx context.Context, kind ActionKind) (Confirmation, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, kind ActionKind) (Confirmation, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, kind ActionKind) (Confirmation, error) {
	return f(ctx, kind)
}

// WalletConfirmer implements the payment gate: a fee
// transfer to the platform wallet, confirmed in the user's wallet.
type WalletConfirmer struct {
	Wallet    chain.Wallet
	FeeWallet string
	FeeWei    string
}

func (w *WalletConfirmer) Confirm(ctx context.Context, kind ActionKind) (Confirmation, error) {
	if w.Wallet == nil {
		return Confirmation{}, chain.ErrUnavailable
	}
	tx, err := w.Wallet.SendTransaction(ctx, w.FeeWallet, w.FeeWei)
	if err != nil {
		return Confirmation{}, err
	}
	if err := tx.Wait(ctx); err != nil {
		return Confirmation{}, err
	}
	return Confirmation{TxHash: tx.Hash}, nil
}

// Action is the guarded mutation, invoked with the confirmation's correlation
// token exactly once per successful confirmation.
type Action func(ctx context.Context, token string) error

// Orchestrator gates actions behind a Confirmer and serializes actions that
// share a key, so two gated mutations of the same application cannot
// interleave even when their confirmations resolve out of order.
type Orchestrator struct {
	confirmer Confirmer
	timeout   time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	phase map[string]Phase
}

// DefaultTimeout bounds the confirmation-plus-mutation window when no
// explicit timeout is configured.
const DefaultTimeout = 2 * time.Minute

func NewOrchestrator(confirmer Confirmer, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{
		confirmer: confirmer,
		timeout:   timeout,
		locks:     make(map[string]*sync.Mutex),
		phase:     make(map[string]Phase),
	}
}

// Phase reports the current phase for a key; idle when nothing is running.
func (o *Orchestrator) Phase(key string) Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	if p, ok := o.phase[key]; ok {
		return p
	}
	return PhaseIdle
}

func (o *Orchestrator) keyLock(key string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.locks[key]
	if !ok {
		l = &sync.Mutex{}
		o.locks[key] = l
	}
	return l
}

func (o *Orchestrator) setPhase(key string, p Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if p == PhaseIdle {
		delete(o.phase, key)
		return
	}
	o.phase[key] = p
}

// Run executes the gated action: confirmation first, then the mutation with
// the correlation token. Actions with the same key run strictly one at a
// time. The whole sequence is bounded by the configured timeout; on any error
// the mutation has either fully run or not run at all.
func (o *Orchestrator) Run(ctx context.Context, kind ActionKind, key string, action Action) (Confirmation, error) {
	lock := o.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	o.setPhase(key, PhaseProcessing)
	defer o.setPhase(key, PhaseIdle)

	conf, err := o.confirm(ctx, kind)
	if err != nil {
		o.setPhase(key, PhaseError)
		return Confirmation{}, err
	}

	// Confirmation succeeded: the continuation runs exactly once. A failure
	// inside the action is the action's own error, not a re-run trigger.
	if err := action(ctx, conf.TxHash); err != nil {
		o.setPhase(key, PhaseError)
		return conf, fmt.Errorf("gated %s: %w", kind, err)
	}

	o.setPhase(key, PhaseSuccess)
	return conf, nil
}

// confirm runs the Confirmer in its own goroutine so an unresponsive one
// cannot outlive the bounded wait.
func (o *Orchestrator) confirm(ctx context.Context, kind ActionKind) (Confirmation, error) {
	type result struct {
		conf Confirmation
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conf, err := o.confirmer.Confirm(ctx, kind)
		ch <- result{conf, err}
	}()

	select {
	case r := <-ch:
		return r.conf, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Confirmation{}, ErrTimeout
		}
		return Confirmation{}, ErrCancelled
	}
}
