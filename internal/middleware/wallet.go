package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"
)

type contextKey string

const walletKey contextKey = "wallet_address"

// WalletHeader carries the connected account for every portal request. The
// dApp has no session of its own; the wallet is the identity.
const WalletHeader = "X-Wallet-Address"

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// RequireWallet extracts and validates the wallet address header, rejecting
// requests without one. Handlers read it back with WalletAddress(r).
func RequireWallet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		address := strings.TrimSpace(r.Header.Get(WalletHeader))
		if !addressPattern.MatchString(address) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"A connected wallet address is required"}`))
			return
		}
		ctx := context.WithValue(r.Context(), walletKey, address)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WalletAddress returns the validated address set by RequireWallet, or ""
// when the middleware did not run.
func WalletAddress(r *http.Request) string {
	address, _ := r.Context().Value(walletKey).(string)
	return address
}
