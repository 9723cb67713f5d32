package utils

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID returns an opaque prefixed identifier, e.g. "prod_1a2b3c4d5e6f".
func NewID(prefix string) string {
	u := uuid.New()
	return prefix + "_" + hex.EncodeToString(u[:])[:12]
}

// NewSessionToken returns a high-entropy opaque session credential.
func NewSessionToken() string {
	u := uuid.New()
	return "session_" + hex.EncodeToString(u[:])
}
