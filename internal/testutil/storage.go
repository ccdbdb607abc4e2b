package testutil

import (
	"context"
	"errors"

	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/storage"
)

// ErrBackendDown is returned by every FailingStorage call
var ErrBackendDown = errors.New("backend down")

// FailingStorage is a storage whose every call fails, as if the backend were unreachable
type FailingStorage struct{}

// Ensure FailingStorage implements Storage
var _ storage.Storage = FailingStorage{}

func (FailingStorage) CreateIdentity(context.Context, *model.Identity, string) error {
	return ErrBackendDown
}

func (FailingStorage) GetIdentity(context.Context, string) (*model.Identity, error) {
	return nil, ErrBackendDown
}

func (FailingStorage) IdentityExists(context.Context, string) (bool, error) {
	return false, ErrBackendDown
}

func (FailingStorage) VerifySecret(context.Context, string, string) (bool, error) {
	return false, ErrBackendDown
}

func (FailingStorage) UpdateIdentity(context.Context, *model.Identity, string) error {
	return ErrBackendDown
}

func (FailingStorage) DeleteIdentity(context.Context, string) error {
	return ErrBackendDown
}

func (FailingStorage) AppendResult(context.Context, *model.GameResult) error {
	return ErrBackendDown
}

func (FailingStorage) TopResults(context.Context, int) ([]model.GameResult, error) {
	return nil, ErrBackendDown
}

func (FailingStorage) Ping(context.Context) error {
	return ErrBackendDown
}

func (FailingStorage) Close() error {
	return nil
}
