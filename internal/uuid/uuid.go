// uuid is a thin generator that allows deterministic IDs in tests
package uuid

import (
	"github.com/google/uuid"
)

// Generator is an interface for generating IDs
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements Generator using Google's UUID package
type GoogleUUIDGenerator struct{}

// New generates a new UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// FixedGenerator returns a canned sequence of IDs, for tests
type FixedGenerator struct {
	IDs  []string
	next int
}

// New returns the next canned ID, falling back to the last one when exhausted
func (g *FixedGenerator) New() string {
	if len(g.IDs) == 0 {
		return ""
	}
	if g.next >= len(g.IDs) {
		return g.IDs[len(g.IDs)-1]
	}
	id := g.IDs[g.next]
	g.next++
	return id
}
