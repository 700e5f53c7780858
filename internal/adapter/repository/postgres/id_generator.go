package postgres

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// UUIDGenerator generates random v4 entity IDs.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate generates a new UUID.
func (g *UUIDGenerator) Generate() uuid.UUID {
	return uuid.New()
}

// ULIDTokenGenerator generates ULID-based invite tokens. ULIDs are opaque
// to clients but sort by creation time, which keeps invite listings stable.
type ULIDTokenGenerator struct{}

// NewULIDTokenGenerator creates a new ULIDTokenGenerator.
func NewULIDTokenGenerator() *ULIDTokenGenerator {
	return &ULIDTokenGenerator{}
}

// Generate generates a new token.
func (g *ULIDTokenGenerator) Generate() string {
	return ulid.Make().String()
}
