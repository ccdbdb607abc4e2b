package ids

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mcoot/ftdgame/internal/model"
)

// Generator produces result identifiers that sort in creation order
type Generator interface {
	NewResultID(t time.Time) model.ResultID
}

// ULIDGenerator implements Generator with monotonic ULIDs
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
	last    uint64
}

// New creates a new ULIDGenerator
func New() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// NewResultID returns a ULID for t. IDs from one generator are strictly
// increasing even if t moves backwards.
func (g *ULIDGenerator) NewResultID(t time.Time) model.ResultID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := ulid.Timestamp(t)
	if ms < g.last {
		ms = g.last
	}
	g.last = ms
	return model.ResultID(ulid.MustNew(ms, g.entropy).String())
}
