package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/ftdgame/internal/storage/secret"
	"github.com/mcoot/ftdgame/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.Init(New(secret.NewHasher(bcrypt.MinCost)))
}

func (s *StorageSuite) TestGetIdentityReturnsCopy() {
	store := s.Storage.(*Storage)
	s.Require().NoError(store.CreateIdentity(s.T().Context(), storagetest.Identity("alice"), "pass123"))

	got, err := store.GetIdentity(s.T().Context(), "alice")
	s.Require().NoError(err)
	got.Email = "mutated@mail.com"

	again, err := store.GetIdentity(s.T().Context(), "alice")
	s.Require().NoError(err)
	s.Equal("alice@mail.com", again.Email)
}
