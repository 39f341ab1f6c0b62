package gating

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasezero/leasezero-backend/internal/chain"
)

func autoConfirmer(token string) Confirmer {
	return ConfirmerFunc(func(ctx context.Context, kind ActionKind) (Confirmation, error) {
		return Confirmation{TxHash: token}, nil
	})
}

func denyConfirmer(err error) Confirmer {
	return ConfirmerFunc(func(ctx context.Context, kind ActionKind) (Confirmation, error) {
		return Confirmation{}, err
	})
}

func TestConfirmRunsContinuationExactlyOnce(t *testing.T) {
	o := NewOrchestrator(autoConfirmer("0xfee"), time.Second)

	var calls int
	var gotToken string
	conf, err := o.Run(context.Background(), ActionApply, "app-1", func(ctx context.Context, token string) error {
		calls++
		gotToken = token
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "0xfee", gotToken)
	assert.Equal(t, "0xfee", conf.TxHash)
	assert.Equal(t, PhaseIdle, o.Phase("app-1"))
}

func TestCancelNeverRunsContinuation(t *testing.T) {
	o := NewOrchestrator(denyConfirmer(ErrCancelled), time.Second)

	var calls int
	_, err := o.Run(context.Background(), ActionApply, "app-1", func(ctx context.Context, token string) error {
		calls++
		return nil
	})

	require.ErrorIs(t, err, ErrCancelled)
	assert.Zero(t, calls, "cancel must leave state untouched")
}

func TestRejectionNeverRunsContinuation(t *testing.T) {
	o := NewOrchestrator(denyConfirmer(chain.ErrRejected), time.Second)

	var calls int
	_, err := o.Run(context.Background(), ActionSubmitDocs, "app-1", func(ctx context.Context, token string) error {
		calls++
		return nil
	})

	require.ErrorIs(t, err, chain.ErrRejected)
	assert.Zero(t, calls)
}

func TestUnresponsiveConfirmerTimesOut(t *testing.T) {
	stuck := ConfirmerFunc(func(ctx context.Context, kind ActionKind) (Confirmation, error) {
		<-ctx.Done() // never resolves on its own
		return Confirmation{}, ctx.Err()
	})
	o := NewOrchestrator(stuck, 30*time.Millisecond)

	var calls int
	start := time.Now()
	_, err := o.Run(context.Background(), ActionSealProfile, "profile-1", func(ctx context.Context, token string) error {
		calls++
		return nil
	})

	require.ErrorIs(t, err, ErrTimeout)
	assert.Zero(t, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestActionErrorSurfacedWithoutRetry(t *testing.T) {
	o := NewOrchestrator(autoConfirmer("0xfee"), time.Second)

	boom := errors.New("chain submit failed")
	var calls int
	_, err := o.Run(context.Background(), ActionDeployListing, "prop-1", func(ctx context.Context, token string) error {
		calls++
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "a failed continuation must not be re-fired")
}

func TestSameKeySerialized(t *testing.T) {
	o := NewOrchestrator(autoConfirmer("0xfee"), time.Second)

	var mu sync.Mutex
	var inFlight, maxInFlight int

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := o.Run(context.Background(), ActionSubmitDocs, "app-1", func(ctx context.Context, token string) error {
				mu.Lock()
				inFlight++
				if inFlight > maxInFlight {
					maxInFlight = inFlight
				}
				mu.Unlock()

				time.Sleep(2 * time.Millisecond)

				mu.Lock()
				inFlight--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight, "mutations to the same key must not interleave")
}

func TestDistinctKeysRunConcurrently(t *testing.T) {
	release := make(chan struct{})
	blocking := ConfirmerFunc(func(ctx context.Context, kind ActionKind) (Confirmation, error) {
		if kind == ActionApply {
			<-release
		}
		return Confirmation{TxHash: "0x1"}, nil
	})
	o := NewOrchestrator(blocking, time.Second)

	done := make(chan struct{})
	go func() {
		o.Run(context.Background(), ActionApply, "app-1", func(ctx context.Context, token string) error { return nil })
		close(done)
	}()

	// A different key must not wait behind the blocked one.
	_, err := o.Run(context.Background(), ActionVerifyRequest, "app-2", func(ctx context.Context, token string) error { return nil })
	require.NoError(t, err)

	close(release)
	<-done
}

func TestWalletConfirmerPaysFee(t *testing.T) {
	wallet := &chain.MockWallet{Address: "0xabc"}
	c := &WalletConfirmer{Wallet: wallet, FeeWallet: "0xplatform", FeeWei: "0"}

	conf, err := c.Confirm(context.Background(), ActionApply)
	require.NoError(t, err)
	assert.NotEmpty(t, conf.TxHash)
}

func TestWalletConfirmerUnavailableWithoutWallet(t *testing.T) {
	c := &WalletConfirmer{FeeWallet: "0xplatform", FeeWei: "0"}

	_, err := c.Confirm(context.Background(), ActionApply)
	require.ErrorIs(t, err, chain.ErrUnavailable)
}
