package utils

import (
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/sha3"
)

// Keccak256Hex hashes data with legacy Keccak-256 (the EVM's keccak256) and
// returns the 0x-prefixed hex digest, matching what the contract stores.
func Keccak256Hex(data []byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// DocumentHash derives the content hash submitted on-chain for verification
// material. The digest binds the application, the submitting wallet and the
// submission time.
func DocumentHash(applicationID, walletAddress string, submittedAt time.Time) string {
	payload := fmt.Sprintf("Application:%s-Wallet:%s-Timestamp:%d",
		applicationID, walletAddress, submittedAt.UnixMilli())
	return Keccak256Hex([]byte(payload))
}
