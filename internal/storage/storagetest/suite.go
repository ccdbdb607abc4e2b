// Package storagetest holds the behavior every storage backend must share.
package storagetest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/storage"
)

// Suite runs the storage contract against a backend.
// Embed it in a backend test suite and call Init from SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	ctx     context.Context
}

// Init sets the storage under test
func (s *Suite) Init(store storage.Storage) {
	s.Storage = store
	s.ctx = context.Background()
}

// TearDownTest closes the storage under test
func (s *Suite) TearDownTest() {
	if s.Storage != nil {
		_ = s.Storage.Close()
	}
}

// Identity builds a complete identity for username
func Identity(username string) *model.Identity {
	return &model.Identity{
		Username:        username,
		Email:           username + "@mail.com",
		FirstName:       "Test",
		LastName:        "Player",
		Birthday:        "1990-01-31",
		PizzaPreference: model.PizzaNo,
		SodaPreference:  "Sprite",
		CreatedAt:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Result builds a game result with a sortable id derived from seq
func Result(seq int, username string, score int64) *model.GameResult {
	return &model.GameResult{
		ID:         model.ResultID(fmt.Sprintf("01J%023d", seq)),
		Username:   username,
		Score:      score,
		Difficulty: model.DifficultyNormal,
		PlayedAt:   time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Minute),
	}
}

// Identity tests

func (s *Suite) TestCreateAndGetIdentity() {
	s.Require().NoError(s.Storage.CreateIdentity(s.ctx, Identity("alice"), "pass123"))

	got, err := s.Storage.GetIdentity(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.Equal("alice@mail.com", got.Email)
	s.Equal("Test", got.FirstName)
	s.Equal("Player", got.LastName)
	s.Equal("1990-01-31", got.Birthday)
	s.Equal(model.PizzaNo, got.PizzaPreference)
	s.Equal(model.Soda("Sprite"), got.SodaPreference)
}

func (s *Suite) TestCreateDuplicateIdentityFails() {
	s.Require().NoError(s.Storage.CreateIdentity(s.ctx, Identity("alice"), "pass123"))

	second := Identity("alice")
	second.Email = "other@mail.com"
	err := s.Storage.CreateIdentity(s.ctx, second, "other")
	s.ErrorIs(err, model.ErrAlreadyExists)

	got, err := s.Storage.GetIdentity(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice@mail.com", got.Email)

	ok, err := s.Storage.VerifySecret(s.ctx, "alice", "pass123")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *Suite) TestGetIdentityNotFound() {
	_, err := s.Storage.GetIdentity(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *Suite) TestIdentityExists() {
	exists, err := s.Storage.IdentityExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.Storage.CreateIdentity(s.ctx, Identity("alice"), "pass123"))

	exists, err = s.Storage.IdentityExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *Suite) TestVerifySecret() {
	s.Require().NoError(s.Storage.CreateIdentity(s.ctx, Identity("alice"), "pass123"))

	ok, err := s.Storage.VerifySecret(s.ctx, "alice", "pass123")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.Storage.VerifySecret(s.ctx, "alice", "wrong")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.Storage.VerifySecret(s.ctx, "nobody", "pass123")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *Suite) TestVerifyLongSecret() {
	long := strings.Repeat("a", 80)
	s.Require().NoError(s.Storage.CreateIdentity(s.ctx, Identity("alice"), long))

	ok, err := s.Storage.VerifySecret(s.ctx, "alice", long)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.Storage.VerifySecret(s.ctx, "alice", strings.Repeat("a", 79)+"b")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *Suite) TestUpdateIdentityReplacesFieldsAndSecret() {
	s.Require().NoError(s.Storage.CreateIdentity(s.ctx, Identity("alice"), "pass123"))

	updated := Identity("alice")
	updated.Email = "new@mail.com"
	updated.PizzaPreference = model.PizzaYes
	updated.SodaPreference = "Water"
	s.Require().NoError(s.Storage.UpdateIdentity(s.ctx, updated, "newpass"))

	got, err := s.Storage.GetIdentity(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("new@mail.com", got.Email)
	s.Equal(model.PizzaYes, got.PizzaPreference)
	s.Equal(model.Soda("Water"), got.SodaPreference)

	ok, err := s.Storage.VerifySecret(s.ctx, "alice", "pass123")
	s.Require().NoError(err)
	s.False(ok)
	ok, err = s.Storage.VerifySecret(s.ctx, "alice", "newpass")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *Suite) TestUpdateMissingIdentityFails() {
	err := s.Storage.UpdateIdentity(s.ctx, Identity("nobody"), "pass123")
	s.ErrorIs(err, model.ErrNotFound)

	exists, err := s.Storage.IdentityExists(s.ctx, "nobody")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestDeleteIdentity() {
	s.Require().NoError(s.Storage.CreateIdentity(s.ctx, Identity("alice"), "pass123"))

	s.Require().NoError(s.Storage.DeleteIdentity(s.ctx, "alice"))

	_, err := s.Storage.GetIdentity(s.ctx, "alice")
	s.ErrorIs(err, model.ErrNotFound)

	err = s.Storage.DeleteIdentity(s.ctx, "alice")
	s.ErrorIs(err, model.ErrNotFound)
}

// Game result tests

func (s *Suite) TestTopResultsEmpty() {
	results, err := s.Storage.TopResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(results)
}

func (s *Suite) TestTopResultsOrderedAndLimited() {
	for i := 1; i <= 11; i++ {
		s.Require().NoError(s.Storage.AppendResult(s.ctx, Result(i, "alice", int64(i*10))))
	}

	results, err := s.Storage.TopResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(results, 10)
	for i, r := range results {
		s.Equal(int64((11-i)*10), r.Score)
	}
	s.Equal("alice", results[0].Username)
	s.Equal(model.DifficultyNormal, results[0].Difficulty)
	s.True(results[0].PlayedAt.Equal(Result(11, "alice", 0).PlayedAt))
}

func (s *Suite) TestTopResultsTiesInInsertionOrder() {
	s.Require().NoError(s.Storage.AppendResult(s.ctx, Result(1, "first", 50)))
	s.Require().NoError(s.Storage.AppendResult(s.ctx, Result(2, "top", 90)))
	s.Require().NoError(s.Storage.AppendResult(s.ctx, Result(3, "second", 50)))
	s.Require().NoError(s.Storage.AppendResult(s.ctx, Result(4, "third", 50)))

	results, err := s.Storage.TopResults(s.ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal("top", results[0].Username)
	s.Equal("first", results[1].Username)
	s.Equal("second", results[2].Username)
}

func (s *Suite) TestResultsSurviveIdentityDeletion() {
	s.Require().NoError(s.Storage.CreateIdentity(s.ctx, Identity("alice"), "pass123"))
	s.Require().NoError(s.Storage.AppendResult(s.ctx, Result(1, "alice", 10)))
	s.Require().NoError(s.Storage.DeleteIdentity(s.ctx, "alice"))

	results, err := s.Storage.TopResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal("alice", results[0].Username)
}

func (s *Suite) TestPing() {
	s.NoError(s.Storage.Ping(s.ctx))
}
