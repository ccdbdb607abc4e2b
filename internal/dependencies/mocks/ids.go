package mocks

import (
	"fmt"
	"sync"
	"time"

	"github.com/mcoot/ftdgame/internal/dependencies/ids"
	"github.com/mcoot/ftdgame/internal/model"
)

// MockIDs hands out sequential result IDs that sort in issue order
type MockIDs struct {
	mu   sync.Mutex
	next int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a MockIDs starting at 1
func NewMockIDs() *MockIDs {
	return &MockIDs{next: 1}
}

// NewResultID returns the next sequential ID, ignoring t
func (g *MockIDs) NewResultID(_ time.Time) model.ResultID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := model.ResultID(fmt.Sprintf("result-%06d", g.next))
	g.next++
	return id
}

// Issued returns how many IDs have been handed out
func (g *MockIDs) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next - 1
}
