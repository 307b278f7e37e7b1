package bookshelf

import (
	"github.com/gofrs/uuid"
)

var _ IDGenerator = (*UUIDGenerator)(nil) // ensure UUIDGenerator implements IDGenerator.

// IDGenerator assigns identities to books created without one.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator mints `<prefix>:<uuid v4>` identifiers.
type UUIDGenerator struct {
	prefix string
}

// NewUUIDGenerator returns a generator for the given prefix. An
// empty prefix produces bare uuids.
func NewUUIDGenerator(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// NewID provides a random unique identifier.
func (g *UUIDGenerator) NewID() string {
	id := uuid.Must(uuid.NewV4())
	if g.prefix == "" {
		return id.String()
	}
	return g.prefix + ":" + id.String()
}
