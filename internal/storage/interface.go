package storage

import (
	"context"

	"github.com/mcoot/ftdgame/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations own the one-way hash of identity secrets: the plaintext
// secret is handed over on write and on verification, and is never returned.
type Storage interface {
	// Identity operations
	CreateIdentity(ctx context.Context, identity *model.Identity, secret string) error
	GetIdentity(ctx context.Context, username string) (*model.Identity, error)
	IdentityExists(ctx context.Context, username string) (bool, error)
	VerifySecret(ctx context.Context, username, secret string) (bool, error)
	UpdateIdentity(ctx context.Context, identity *model.Identity, secret string) error
	DeleteIdentity(ctx context.Context, username string) error

	// Game result operations (append-only)
	AppendResult(ctx context.Context, result *model.GameResult) error
	TopResults(ctx context.Context, limit int) ([]model.GameResult, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
