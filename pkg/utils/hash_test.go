package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeccak256HexKnownVector(t *testing.T) {
	// keccak256("") is a well-known constant.
	assert.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		Keccak256Hex(nil))
}

func TestDocumentHashShapeAndDeterminism(t *testing.T) {
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	h1 := DocumentHash("app-1", "0xabc", at)
	h2 := DocumentHash("app-1", "0xabc", at)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 66) // 0x + 32 bytes hex

	assert.NotEqual(t, h1, DocumentHash("app-2", "0xabc", at))
	assert.NotEqual(t, h1, DocumentHash("app-1", "0xdef", at))
	assert.NotEqual(t, h1, DocumentHash("app-1", "0xabc", at.Add(time.Millisecond)))
}
