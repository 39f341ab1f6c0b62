package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// GatewayContract talks to the relayer gateway, the HTTP service that holds
// the real signer, FHE SDK and contract binding. The gateway does the chain
// work; this client only moves typed JSON.
type GatewayContract struct {
	client          *resty.Client
	contractAddress string
}

// NewGatewayContract builds a client for the relayer gateway at baseURL.
func NewGatewayContract(baseURL, contractAddress string) *GatewayContract {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &GatewayContract{client: client, contractAddress: contractAddress}
}

// gatewayResponse is the uniform response envelope of the relayer gateway.
type gatewayResponse struct {
	Success       bool   `json:"success"`
	TxHash        string `json:"txHash"`
	ListingID     string `json:"listingId"`
	ApplicationID string `json:"applicationId"`
	Result        string `json:"result"`
	Error         struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GatewayContract) call(ctx context.Context, op string, body interface{}) (gatewayResponse, error) {
	var out gatewayResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&out).
		Post("/contract/" + op)
	if err != nil {
		return out, &CallError{Op: op, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	if resp.IsError() || !out.Success {
		return out, &CallError{Op: op, Err: gatewayError(out)}
	}
	return out, nil
}

// gatewayError maps the gateway's error codes onto the sentinel errors the
// orchestrator understands. The codes mirror the wallet provider's.
func gatewayError(r gatewayResponse) error {
	switch r.Error.Code {
	case "ACTION_REJECTED":
		return ErrRejected
	case "INSUFFICIENT_FUNDS":
		return ErrInsufficientFunds
	case "":
		return ErrUnavailable
	default:
		return fmt.Errorf("%s: %s", r.Error.Code, r.Error.Message)
	}
}

func (g *GatewayContract) receipt(r gatewayResponse) Receipt {
	return Receipt{
		Status:        ReceiptSuccess,
		TxHash:        r.TxHash,
		ListingID:     r.ListingID,
		ApplicationID: r.ApplicationID,
	}
}

func (g *GatewayContract) SetProfile(ctx context.Context, caller string, input EncryptedInput) (Receipt, error) {
	r, err := g.call(ctx, "setProfile", map[string]interface{}{
		"contract":   g.contractAddress,
		"caller":     caller,
		"handles":    input.Handles,
		"inputProof": input.InputProof,
	})
	if err != nil {
		return Receipt{Status: ReceiptFailure}, err
	}
	return g.receipt(r), nil
}

func (g *GatewayContract) CreateListing(ctx context.Context, caller string, criteria ListingCriteria, input EncryptedInput) (Receipt, error) {
	r, err := g.call(ctx, "createListing", map[string]interface{}{
		"contract":          g.contractAddress,
		"caller":            caller,
		"minIncome":         criteria.MinIncome,
		"minSeniority":      criteria.MinSeniority,
		"maxMissedPayments": criteria.MaxMissedPayments,
		"maxOccupants":      criteria.MaxOccupants,
		"requireSavings":    criteria.RequireSavings,
		"requireGuarantor":  criteria.RequireGuarantor,
		"handles":           input.Handles,
		"inputProof":        input.InputProof,
	})
	if err != nil {
		return Receipt{Status: ReceiptFailure}, err
	}
	return g.receipt(r), nil
}

func (g *GatewayContract) CheckEligibility(ctx context.Context, caller, listingID string) (Receipt, error) {
	r, err := g.call(ctx, "checkEligibility", map[string]interface{}{
		"contract":  g.contractAddress,
		"caller":    caller,
		"listingId": listingID,
	})
	if err != nil {
		return Receipt{Status: ReceiptFailure}, err
	}
	return g.receipt(r), nil
}

func (g *GatewayContract) GetEligibilityResult(ctx context.Context, applicationID string) (string, error) {
	r, err := g.call(ctx, "getEligibilityResult", map[string]interface{}{
		"contract":      g.contractAddress,
		"applicationId": applicationID,
	})
	if err != nil {
		return "", err
	}
	return r.Result, nil
}

func (g *GatewayContract) SubmitDocumentHash(ctx context.Context, caller, listingID, docHash string) (Receipt, error) {
	r, err := g.call(ctx, "submitDocumentHash", map[string]interface{}{
		"contract":  g.contractAddress,
		"caller":    caller,
		"listingId": listingID,
		"docHash":   docHash,
	})
	if err != nil {
		return Receipt{Status: ReceiptFailure}, err
	}
	return g.receipt(r), nil
}

func (g *GatewayContract) ApproveAttestation(ctx context.Context, caller, listingID, tenantAddress string) (Receipt, error) {
	r, err := g.call(ctx, "approveAttestation", map[string]interface{}{
		"contract":  g.contractAddress,
		"caller":    caller,
		"listingId": listingID,
		"tenant":    tenantAddress,
	})
	if err != nil {
		return Receipt{Status: ReceiptFailure}, err
	}
	return g.receipt(r), nil
}

func (g *GatewayContract) RequestPublicReveal(ctx context.Context, caller, applicationID string) (Receipt, error) {
	r, err := g.call(ctx, "requestPublicReveal", map[string]interface{}{
		"contract":      g.contractAddress,
		"caller":        caller,
		"applicationId": applicationID,
	})
	if err != nil {
		return Receipt{Status: ReceiptFailure}, err
	}
	return g.receipt(r), nil
}

func (g *GatewayContract) FinalizePublicReveal(ctx context.Context, caller, applicationID, result, proof string) (Receipt, error) {
	r, err := g.call(ctx, "finalizePublicReveal", map[string]interface{}{
		"contract":      g.contractAddress,
		"caller":        caller,
		"applicationId": applicationID,
		"result":        result,
		"proof":         proof,
	})
	if err != nil {
		return Receipt{Status: ReceiptFailure}, err
	}
	return g.receipt(r), nil
}

// GatewayEncryptionProvider builds encrypted inputs through the relayer
// gateway, which holds the actual FHE SDK.
type GatewayEncryptionProvider struct {
	client *resty.Client
}

func NewGatewayEncryptionProvider(baseURL string) *GatewayEncryptionProvider {
	return &GatewayEncryptionProvider{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
	}
}

type gatewayBuilder struct {
	client          *resty.Client
	contractAddress string
	userAddress     string
	fields          []uint32
}

func (p *GatewayEncryptionProvider) CreateEncryptedInput(contractAddress, userAddress string) InputBuilder {
	return &gatewayBuilder{client: p.client, contractAddress: contractAddress, userAddress: userAddress}
}

func (b *gatewayBuilder) AddUint32(value uint32) InputBuilder {
	b.fields = append(b.fields, value)
	return b
}

func (b *gatewayBuilder) Encrypt(ctx context.Context) (EncryptedInput, error) {
	var out EncryptedInput
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"contract": b.contractAddress,
			"user":     b.userAddress,
			"fields":   b.fields,
		}).
		SetResult(&out).
		Post("/fhevm/encrypt")
	if err != nil {
		return EncryptedInput{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return EncryptedInput{}, fmt.Errorf("encrypt input: gateway returned %s", resp.Status())
	}
	return out, nil
}

// GatewayWallet proxies wallet operations through the same relayer gateway.
type GatewayWallet struct {
	client *resty.Client
}

func NewGatewayWallet(baseURL string) *GatewayWallet {
	return &GatewayWallet{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(60 * time.Second),
	}
}

func (w *GatewayWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	var out struct {
		Accounts []string `json:"accounts"`
	}
	resp, err := w.client.R().SetContext(ctx).SetResult(&out).Post("/wallet/accounts")
	if err != nil || resp.IsError() {
		return nil, ErrUnavailable
	}
	return out.Accounts, nil
}

func (w *GatewayWallet) SendTransaction(ctx context.Context, to string, valueWei string) (PendingTx, error) {
	var out gatewayResponse
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"to": to, "value": valueWei}).
		SetResult(&out).
		SetError(&out).
		Post("/wallet/sendTransaction")
	if err != nil {
		return PendingTx{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() || !out.Success {
		return PendingTx{}, gatewayError(out)
	}

	txHash := out.TxHash
	return PendingTx{
		Hash: txHash,
		Wait: func(ctx context.Context) error {
			var waitOut gatewayResponse
			waitResp, err := w.client.R().
				SetContext(ctx).
				SetBody(map[string]string{"txHash": txHash}).
				SetResult(&waitOut).
				SetError(&waitOut).
				Post("/wallet/waitTransaction")
			if err != nil {
				return fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
			if waitResp.IsError() || !waitOut.Success {
				return gatewayError(waitOut)
			}
			return nil
		},
	}, nil
}
