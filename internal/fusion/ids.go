package fusion

import "github.com/google/uuid"

// IDGenerator produces entity identifiers. Injected so tests and replay
// tooling can generate deterministic output.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the production IDGenerator backed by random UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}
