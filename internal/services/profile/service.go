package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/ftdgame/internal/dependencies/clock"
	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/services/validation"
	"github.com/mcoot/ftdgame/internal/storage"
)

// Service manages identities on behalf of their owners
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new profile Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Register creates a new identity from a submitted profile
func (s *Service) Register(ctx context.Context, p model.Profile) error {
	if err := validation.ValidateProfile(p).AsError(); err != nil {
		return err
	}

	exists, err := s.storage.IdentityExists(ctx, p.Username)
	if err != nil {
		return s.storageFailure("check identity", p.Username, err)
	}
	if exists {
		return model.ErrAlreadyExists
	}

	identity := p.Identity()
	now := s.clock.Now().UTC()
	identity.CreatedAt = now
	identity.UpdatedAt = now

	// A concurrent registration can still win the race; storage reports it as ErrAlreadyExists
	if err := s.storage.CreateIdentity(ctx, identity, p.Secret); err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return err
		}
		return s.storageFailure("create identity", p.Username, err)
	}

	s.logger.Info("identity registered", "username", p.Username)
	return nil
}

// Get returns the caller's own identity
func (s *Service) Get(ctx context.Context, caller, username string) (*model.Identity, error) {
	if caller != username {
		return nil, model.ErrForbidden
	}

	identity, err := s.storage.GetIdentity(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, s.storageFailure("get identity", username, err)
	}
	return identity, nil
}

// Update replaces every mutable field of the caller's identity and re-hashes the secret
func (s *Service) Update(ctx context.Context, caller, username string, p model.Profile) error {
	if caller != username || caller != p.Username {
		return model.ErrForbidden
	}

	if err := validation.ValidateProfile(p).AsError(); err != nil {
		return err
	}

	exists, err := s.storage.IdentityExists(ctx, username)
	if err != nil {
		return s.storageFailure("check identity", username, err)
	}
	if !exists {
		return model.ErrNotFound
	}

	identity := p.Identity()
	identity.UpdatedAt = s.clock.Now().UTC()

	if err := s.storage.UpdateIdentity(ctx, identity, p.Secret); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return s.storageFailure("update identity", username, err)
	}

	s.logger.Info("identity updated", "username", username)
	return nil
}

// Delete removes the caller's identity. Recorded game results are kept.
func (s *Service) Delete(ctx context.Context, caller, username string) error {
	if caller != username {
		return model.ErrForbidden
	}

	if err := s.storage.DeleteIdentity(ctx, username); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return s.storageFailure("delete identity", username, err)
	}

	s.logger.Info("identity deleted", "username", username)
	return nil
}

func (s *Service) storageFailure(op, username string, err error) error {
	s.logger.Error("storage failure", "operation", op, "username", username, "error", err)
	return model.StorageFailure(err)
}
