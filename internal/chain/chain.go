// Package chain defines the external collaborator surface of the service:
// the FHE rental contract, the wallet, and the encrypted-input provider.
// Nothing in this package performs cryptography or consensus; implementations
// either proxy to an external relayer gateway or mock the collaborators for
// demo mode.
package chain

import (
	"context"
	"errors"
	"fmt"
)

// ReceiptStatus tags the two branches of a Receipt.
type ReceiptStatus string

const (
	ReceiptSuccess ReceiptStatus = "success"
	ReceiptFailure ReceiptStatus = "failure"
)

// Receipt is the tagged result of a confirmed contract call. ListingID and
// ApplicationID are populated from the call's emitted event when the
// operation produces one.
type Receipt struct {
	Status        ReceiptStatus `json:"status"`
	TxHash        string        `json:"txHash"`
	ListingID     string        `json:"listingId,omitempty"`
	ApplicationID string        `json:"applicationId,omitempty"`
}

// OK reports whether the receipt is the success branch.
func (r Receipt) OK() bool { return r.Status == ReceiptSuccess }

// Sentinel errors for the recoverable failure classes. Callers match with
// errors.Is; none of these are fatal to the session.
var (
	// ErrUnavailable: wallet or contract gateway not connected.
	ErrUnavailable = errors.New("chain collaborator unavailable")
	// ErrRejected: the user declined the transaction in their wallet.
	ErrRejected = errors.New("transaction rejected by user")
	// ErrInsufficientFunds: fee plus gas exceeds the wallet balance.
	ErrInsufficientFunds = errors.New("insufficient funds for fee + gas")
)

// CallError wraps a failed contract call with the operation name.
type CallError struct {
	Op  string
	Err error
}

func (e *CallError) Error() string { return fmt.Sprintf("chain call %s: %v", e.Op, e.Err) }
func (e *CallError) Unwrap() error { return e.Err }

// EncryptedInput is the terminal product of the input builder: opaque field
// handles plus the proof binding them to the contract and caller.
type EncryptedInput struct {
	Handles    []string `json:"handles"`
	InputProof string   `json:"inputProof"`
}

// InputBuilder accumulates plaintext fields for encryption. AddUint32 is
// chainable; Encrypt is the terminal step.
type InputBuilder interface {
	AddUint32(value uint32) InputBuilder
	Encrypt(ctx context.Context) (EncryptedInput, error)
}

// EncryptionProvider creates input builders bound to a contract and caller.
type EncryptionProvider interface {
	CreateEncryptedInput(contractAddress, userAddress string) InputBuilder
}

// ListingCriteria is the public half of a listing sent alongside the
// encrypted thresholds.
type ListingCriteria struct {
	MinIncome         uint32
	MinSeniority      uint32
	MaxMissedPayments uint32
	MaxOccupants      uint32
	RequireSavings    bool
	RequireGuarantor  bool
}

// Contract is the typed surface of the on-chain rental contract. Every call
// may fail with a recoverable error; callers must treat failures as a blocked
// action, never a crashed session.
type Contract interface {
	SetProfile(ctx context.Context, caller string, input EncryptedInput) (Receipt, error)
	CreateListing(ctx context.Context, caller string, criteria ListingCriteria, input EncryptedInput) (Receipt, error)
	CheckEligibility(ctx context.Context, caller, listingID string) (Receipt, error)
	GetEligibilityResult(ctx context.Context, applicationID string) (string, error)
	SubmitDocumentHash(ctx context.Context, caller, listingID, docHash string) (Receipt, error)
	ApproveAttestation(ctx context.Context, caller, listingID, tenantAddress string) (Receipt, error)
	RequestPublicReveal(ctx context.Context, caller, applicationID string) (Receipt, error)
	FinalizePublicReveal(ctx context.Context, caller, applicationID, result, proof string) (Receipt, error)
}

// PendingTx is a submitted wallet transaction awaiting confirmation.
type PendingTx struct {
	Hash string
	// Wait blocks until the transaction confirms or the context ends.
	Wait func(ctx context.Context) error
}

// Wallet is the minimal request/response contract with the user's wallet.
type Wallet interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	SendTransaction(ctx context.Context, to string, valueWei string) (PendingTx, error)
}
