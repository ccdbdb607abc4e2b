package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/storage"
	"github.com/mcoot/ftdgame/internal/storage/secret"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu     sync.RWMutex
	hasher *secret.Hasher

	identities map[string]*identityRecord
	results    []model.GameResult
}

type identityRecord struct {
	identity   model.Identity
	secretHash string
}

// New creates a new in-memory storage instance.
// A nil hasher uses bcrypt at the default cost.
func New(hasher *secret.Hasher) *Storage {
	if hasher == nil {
		hasher = secret.NewHasher(0)
	}
	return &Storage{
		hasher:     hasher,
		identities: make(map[string]*identityRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

func (s *Storage) CreateIdentity(ctx context.Context, identity *model.Identity, secret string) error {
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[identity.Username]; ok {
		return model.ErrAlreadyExists
	}
	s.identities[identity.Username] = &identityRecord{identity: *identity, secretHash: hash}
	return nil
}

func (s *Storage) GetIdentity(ctx context.Context, username string) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.identities[username]
	if !ok {
		return nil, model.ErrNotFound
	}
	identity := rec.identity
	return &identity, nil
}

func (s *Storage) IdentityExists(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.identities[username]
	return ok, nil
}

func (s *Storage) VerifySecret(ctx context.Context, username, secret string) (bool, error) {
	s.mu.RLock()
	rec, ok := s.identities[username]
	var hash string
	if ok {
		hash = rec.secretHash
	}
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	return s.hasher.Verify(hash, secret)
}

func (s *Storage) UpdateIdentity(ctx context.Context, identity *model.Identity, secret string) error {
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.identities[identity.Username]
	if !ok {
		return model.ErrNotFound
	}
	updated := *identity
	updated.CreatedAt = rec.identity.CreatedAt
	s.identities[identity.Username] = &identityRecord{identity: updated, secretHash: hash}
	return nil
}

func (s *Storage) DeleteIdentity(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[username]; !ok {
		return model.ErrNotFound
	}
	delete(s.identities, username)
	return nil
}

// Game result operations

func (s *Storage) AppendResult(ctx context.Context, result *model.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, *result)
	return nil
}

func (s *Storage) TopResults(ctx context.Context, limit int) ([]model.GameResult, error) {
	s.mu.RLock()
	sorted := make([]model.GameResult, len(s.results))
	copy(sorted, s.results)
	s.mu.RUnlock()

	slices.SortStableFunc(sorted, func(a, b model.GameResult) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// Lifecycle

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	return nil
}
