package chain

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync/atomic"
)

// randomHex returns "0x" plus n random bytes in hex, shaped like the handles
// and proofs the real relayer returns.
func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "0x" + hex.EncodeToString(make([]byte, n))
	}
	return "0x" + hex.EncodeToString(buf)
}

// MockEncryptionProvider fabricates opaque handles without encrypting
// anything. Used in demo mode, matching the dApp's FHEVM stub.
type MockEncryptionProvider struct{}

type mockBuilder struct {
	count int
}

func (p *MockEncryptionProvider) CreateEncryptedInput(contractAddress, userAddress string) InputBuilder {
	return &mockBuilder{}
}

func (b *mockBuilder) AddUint32(value uint32) InputBuilder {
	b.count++
	return b
}

func (b *mockBuilder) Encrypt(ctx context.Context) (EncryptedInput, error) {
	handles := make([]string, b.count)
	for i := range handles {
		handles[i] = randomHex(32)
	}
	return EncryptedInput{Handles: handles, InputProof: randomHex(64)}, nil
}

// MockContract returns synthetic success receipts for every operation. It is
// the demo-mode stand-in selected explicitly by configuration; it is never
// used as a fallback when a real call fails.
type MockContract struct {
	listingSeq atomic.Int64
	appSeq     atomic.Int64
}

func NewMockContract() *MockContract {
	return &MockContract{}
}

func (m *MockContract) receipt() Receipt {
	return Receipt{Status: ReceiptSuccess, TxHash: randomHex(32)}
}

func (m *MockContract) SetProfile(ctx context.Context, caller string, input EncryptedInput) (Receipt, error) {
	return m.receipt(), nil
}

func (m *MockContract) CreateListing(ctx context.Context, caller string, criteria ListingCriteria, input EncryptedInput) (Receipt, error) {
	r := m.receipt()
	r.ListingID = fmt.Sprintf("mock-%d", m.listingSeq.Add(1))
	return r, nil
}

func (m *MockContract) CheckEligibility(ctx context.Context, caller, listingID string) (Receipt, error) {
	r := m.receipt()
	r.ApplicationID = fmt.Sprintf("mock-app-%d", m.appSeq.Add(1))
	return r, nil
}

func (m *MockContract) GetEligibilityResult(ctx context.Context, applicationID string) (string, error) {
	return randomHex(32), nil
}

func (m *MockContract) SubmitDocumentHash(ctx context.Context, caller, listingID, docHash string) (Receipt, error) {
	return m.receipt(), nil
}

func (m *MockContract) ApproveAttestation(ctx context.Context, caller, listingID, tenantAddress string) (Receipt, error) {
	return m.receipt(), nil
}

func (m *MockContract) RequestPublicReveal(ctx context.Context, caller, applicationID string) (Receipt, error) {
	return m.receipt(), nil
}

func (m *MockContract) FinalizePublicReveal(ctx context.Context, caller, applicationID, result, proof string) (Receipt, error) {
	return m.receipt(), nil
}

// MockWallet signs nothing and confirms instantly. The zero-fee default makes
// the confirmation step a pure consent gate.
type MockWallet struct {
	Address string
}

func (w *MockWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	if w.Address == "" {
		return nil, ErrUnavailable
	}
	return []string{w.Address}, nil
}

func (w *MockWallet) SendTransaction(ctx context.Context, to string, valueWei string) (PendingTx, error) {
	if w.Address == "" {
		return PendingTx{}, ErrUnavailable
	}
	if valueWei != "" && valueWei != "0" {
		// Sanity-check the value parses like the real wallet would.
		if _, ok := new(big.Int).SetString(valueWei, 10); !ok {
			return PendingTx{}, fmt.Errorf("invalid transaction value %q", valueWei)
		}
	}
	return PendingTx{
		Hash: randomHex(32),
		Wait: func(ctx context.Context) error { return ctx.Err() },
	}, nil
}
