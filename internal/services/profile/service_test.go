package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/ftdgame/internal/dependencies/mocks"
	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/services/validation"
	"github.com/mcoot/ftdgame/internal/storage/memory"
	"github.com/mcoot/ftdgame/internal/storage/secret"
	"github.com/mcoot/ftdgame/internal/storage/storagetest"
	"github.com/mcoot/ftdgame/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New(secret.NewHasher(bcrypt.MinCost))
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func validProfile(username string) model.Profile {
	return model.Profile{
		Username:        username,
		Secret:          "pass123",
		ConfirmSecret:   "pass123",
		Email:           username + "@mail.com",
		FirstName:       "Alice",
		LastName:        "Smith",
		Birthday:        "1990-02-30",
		PizzaPreference: "yes",
		SodaPreference:  "President's Choice",
	}
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	s.Require().NoError(s.service.Register(s.ctx, validProfile("alice")))

	identity, err := s.storage.GetIdentity(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice@mail.com", identity.Email)
	s.Equal("1990-02-30", identity.Birthday)
	s.Equal(model.PizzaYes, identity.PizzaPreference)
	s.Equal(s.clock.Now(), identity.CreatedAt)

	ok, err := s.storage.VerifySecret(s.ctx, "alice", "pass123")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *ServiceSuite) TestRegisterAggregatesValidationErrors() {
	p := validProfile("al ice")
	p.Email = "nope"
	p.SodaPreference = "sprite"

	err := s.service.Register(s.ctx, p)
	s.Require().ErrorIs(err, model.ErrValidationFailed)

	var vErr *validation.Error
	s.Require().ErrorAs(err, &vErr)
	s.True(vErr.Report.Has(validation.FieldUsername))
	s.True(vErr.Report.Has(validation.FieldEmail))
	s.True(vErr.Report.Has(validation.FieldSoda))

	exists, err := s.storage.IdentityExists(s.ctx, "al ice")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ServiceSuite) TestRegisterDuplicateKeepsOriginal() {
	s.Require().NoError(s.service.Register(s.ctx, validProfile("alice")))

	second := validProfile("alice")
	second.Email = "other@mail.com"
	second.Secret = "different"
	second.ConfirmSecret = "different"
	err := s.service.Register(s.ctx, second)
	s.ErrorIs(err, model.ErrAlreadyExists)

	identity, err := s.storage.GetIdentity(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice@mail.com", identity.Email)
	ok, err := s.storage.VerifySecret(s.ctx, "alice", "pass123")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *ServiceSuite) TestRegisterStorageFailure() {
	service := New(testutil.FailingStorage{}, s.clock, testutil.NopLogger())
	err := service.Register(s.ctx, validProfile("alice"))
	s.ErrorIs(err, model.ErrStorageUnavailable)
}

// Get tests

func (s *ServiceSuite) TestGetOwnProfile() {
	s.Require().NoError(s.service.Register(s.ctx, validProfile("alice")))

	identity, err := s.service.Get(s.ctx, "alice", "alice")
	s.Require().NoError(err)
	s.Equal("alice", identity.Username)
	s.Equal("Smith", identity.LastName)
}

func (s *ServiceSuite) TestGetOtherProfileForbidden() {
	s.Require().NoError(s.storage.CreateIdentity(s.ctx, storagetest.Identity("bob"), "pass123"))

	_, err := s.service.Get(s.ctx, "alice", "bob")
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestGetMissingProfile() {
	_, err := s.service.Get(s.ctx, "ghost", "ghost")
	s.ErrorIs(err, model.ErrNotFound)
}

// Update tests

func (s *ServiceSuite) TestUpdateReplacesAllFields() {
	s.Require().NoError(s.service.Register(s.ctx, validProfile("alice")))
	s.clock.Advance(time.Hour)

	p := validProfile("alice")
	p.Secret = "newpass"
	p.ConfirmSecret = "newpass"
	p.Email = "new@mail.com"
	p.FirstName = "Alicia"
	p.PizzaPreference = "no"
	p.SodaPreference = "Water"
	s.Require().NoError(s.service.Update(s.ctx, "alice", "alice", p))

	identity, err := s.storage.GetIdentity(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("new@mail.com", identity.Email)
	s.Equal("Alicia", identity.FirstName)
	s.Equal(model.PizzaNo, identity.PizzaPreference)
	s.Equal(model.Soda("Water"), identity.SodaPreference)
	s.Equal(s.clock.Now(), identity.UpdatedAt)
	s.True(identity.CreatedAt.Before(identity.UpdatedAt))

	ok, err := s.storage.VerifySecret(s.ctx, "alice", "newpass")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *ServiceSuite) TestUpdateIsIdempotent() {
	s.Require().NoError(s.service.Register(s.ctx, validProfile("alice")))
	p := validProfile("alice")
	p.Email = "new@mail.com"

	s.Require().NoError(s.service.Update(s.ctx, "alice", "alice", p))
	first, err := s.storage.GetIdentity(s.ctx, "alice")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Update(s.ctx, "alice", "alice", p))
	second, err := s.storage.GetIdentity(s.ctx, "alice")
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *ServiceSuite) TestUpdateMismatchedPathForbiddenRegardlessOfBody() {
	s.Require().NoError(s.storage.CreateIdentity(s.ctx, storagetest.Identity("bob"), "pass123"))

	err := s.service.Update(s.ctx, "alice", "bob", validProfile("bob"))
	s.ErrorIs(err, model.ErrForbidden)

	err = s.service.Update(s.ctx, "alice", "bob", model.Profile{})
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestUpdateMismatchedBodyForbidden() {
	s.Require().NoError(s.service.Register(s.ctx, validProfile("alice")))

	err := s.service.Update(s.ctx, "alice", "alice", validProfile("bob"))
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestUpdateValidationFailure() {
	s.Require().NoError(s.service.Register(s.ctx, validProfile("alice")))

	p := validProfile("alice")
	p.ConfirmSecret = "mismatch"
	err := s.service.Update(s.ctx, "alice", "alice", p)
	s.ErrorIs(err, model.ErrValidationFailed)
}

func (s *ServiceSuite) TestUpdateMissingIdentity() {
	err := s.service.Update(s.ctx, "ghost", "ghost", validProfile("ghost"))
	s.ErrorIs(err, model.ErrNotFound)
}

// Delete tests

func (s *ServiceSuite) TestDeleteOwnIdentity() {
	s.Require().NoError(s.service.Register(s.ctx, validProfile("alice")))

	s.Require().NoError(s.service.Delete(s.ctx, "alice", "alice"))

	exists, err := s.storage.IdentityExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ServiceSuite) TestDeleteKeepsResults() {
	s.Require().NoError(s.service.Register(s.ctx, validProfile("alice")))
	s.Require().NoError(s.storage.AppendResult(s.ctx, storagetest.Result(1, "alice", 50)))

	s.Require().NoError(s.service.Delete(s.ctx, "alice", "alice"))

	top, err := s.storage.TopResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(top, 1)
}

func (s *ServiceSuite) TestDeleteOtherForbidden() {
	s.Require().NoError(s.storage.CreateIdentity(s.ctx, storagetest.Identity("bob"), "pass123"))

	err := s.service.Delete(s.ctx, "alice", "bob")
	s.ErrorIs(err, model.ErrForbidden)

	exists, err := s.storage.IdentityExists(s.ctx, "bob")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *ServiceSuite) TestDeleteMissing() {
	err := s.service.Delete(s.ctx, "ghost", "ghost")
	s.ErrorIs(err, model.ErrNotFound)
}
