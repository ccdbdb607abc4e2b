package score

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/ftdgame/internal/dependencies/mocks"
	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/storage/memory"
	"github.com/mcoot/ftdgame/internal/storage/secret"
	"github.com/mcoot/ftdgame/internal/storage/storagetest"
	"github.com/mcoot/ftdgame/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	ids     *mocks.MockIDs
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New(secret.NewHasher(bcrypt.MinCost))
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	s.ids = mocks.NewMockIDs()
	s.service = New(s.storage, s.clock, s.ids, testutil.NopLogger())
	s.ctx = context.Background()
	s.Require().NoError(s.storage.CreateIdentity(s.ctx, storagetest.Identity("alice"), "pass123"))
	s.Require().NoError(s.storage.CreateIdentity(s.ctx, storagetest.Identity("bob"), "pass123"))
}

func (s *ServiceSuite) TestSubmitRecordsResult() {
	result, err := s.service.Submit(s.ctx, "alice", Submission{Username: "alice", Score: "0", Difficulty: "1"})
	s.Require().NoError(err)

	s.Equal("alice", result.Username)
	s.Equal(int64(0), result.Score)
	s.Equal(model.DifficultyNormal, result.Difficulty)
	s.Equal(s.clock.Now(), result.PlayedAt)
	s.Equal(model.ResultID("result-000001"), result.ID)

	top, err := s.storage.TopResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal(*result, top[0])
}

func (s *ServiceSuite) TestSubmitDifficultyCodes() {
	for code, want := range map[string]model.Difficulty{
		"0": model.DifficultyEasy,
		"1": model.DifficultyNormal,
		"2": model.DifficultyHard,
	} {
		result, err := s.service.Submit(s.ctx, "alice", Submission{Score: "10", Difficulty: code})
		s.Require().NoError(err)
		s.Equal(want, result.Difficulty)
	}
}

func (s *ServiceSuite) TestSubmitDefaultsToCaller() {
	result, err := s.service.Submit(s.ctx, "alice", Submission{Score: "5", Difficulty: "0"})
	s.Require().NoError(err)
	s.Equal("alice", result.Username)
}

func (s *ServiceSuite) TestSubmitForOtherUserForbidden() {
	_, err := s.service.Submit(s.ctx, "alice", Submission{Username: "bob", Score: "5", Difficulty: "0"})
	s.ErrorIs(err, model.ErrForbidden)
	s.Zero(s.ids.Issued())
}

func (s *ServiceSuite) TestSubmitUnknownUser() {
	_, err := s.service.Submit(s.ctx, "carol", Submission{Score: "5", Difficulty: "0"})
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *ServiceSuite) TestSubmitInvalidScore() {
	for _, raw := range []string{"12a", "", "-1", "1.5", "+3", " 7", "99999999999999999999"} {
		_, err := s.service.Submit(s.ctx, "alice", Submission{Score: raw, Difficulty: "1"})
		s.ErrorIs(err, model.ErrInvalidScore, "score %q", raw)
	}
}

func (s *ServiceSuite) TestSubmitInvalidDifficulty() {
	for _, raw := range []string{"3", "", "easy", "-1", "01"} {
		_, err := s.service.Submit(s.ctx, "alice", Submission{Score: "10", Difficulty: raw})
		s.ErrorIs(err, model.ErrInvalidDifficulty, "difficulty %q", raw)
	}
}

func (s *ServiceSuite) TestSubmitRejectsBeforeWriting() {
	_, _ = s.service.Submit(s.ctx, "alice", Submission{Score: "x", Difficulty: "1"})
	_, _ = s.service.Submit(s.ctx, "alice", Submission{Score: "1", Difficulty: "9"})

	top, err := s.storage.TopResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(top)
}

func (s *ServiceSuite) TestSubmitStorageFailure() {
	service := New(testutil.FailingStorage{}, s.clock, s.ids, testutil.NopLogger())
	_, err := service.Submit(s.ctx, "alice", Submission{Score: "1", Difficulty: "1"})
	s.ErrorIs(err, model.ErrStorageUnavailable)
}
