package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/storage/memory"
	"github.com/mcoot/ftdgame/internal/storage/storagetest"
	"github.com/mcoot/ftdgame/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New(nil)
	s.service = New(s.storage, 0, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestEmpty() {
	rows, err := s.service.Top(s.ctx)
	s.Require().NoError(err)
	s.NotNil(rows)
	s.Empty(rows)
}

func (s *ServiceSuite) TestTopTenOfEleven() {
	for i := range 11 {
		s.Require().NoError(s.storage.AppendResult(s.ctx, storagetest.Result(i+1, "alice", int64(i*10))))
	}

	rows, err := s.service.Top(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 10)
	s.Equal(int64(100), rows[0].Score)
	s.Equal(int64(10), rows[9].Score)
	for i := 1; i < len(rows); i++ {
		s.GreaterOrEqual(rows[i-1].Score, rows[i].Score)
	}
}

func (s *ServiceSuite) TestRowFormat() {
	result := storagetest.Result(1, "bob", 77)
	result.Difficulty = model.DifficultyHard
	result.PlayedAt = time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC)
	s.Require().NoError(s.storage.AppendResult(s.ctx, result))

	rows, err := s.service.Top(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(Row{Username: "bob", Score: 77, Difficulty: model.DifficultyHard, DatePlayed: "03-05-2024"}, rows[0])
}

func (s *ServiceSuite) TestDateIsFormattedInUTC() {
	result := storagetest.Result(1, "bob", 1)
	result.PlayedAt = time.Date(2024, 3, 5, 8, 30, 0, 0, time.FixedZone("AEDT", 11*3600))
	s.Require().NoError(s.storage.AppendResult(s.ctx, result))

	rows, err := s.service.Top(s.ctx)
	s.Require().NoError(err)
	s.Equal("03-04-2024", rows[0].DatePlayed)
}

func (s *ServiceSuite) TestTiesKeepSubmissionOrder() {
	s.Require().NoError(s.storage.AppendResult(s.ctx, storagetest.Result(1, "first", 50)))
	s.Require().NoError(s.storage.AppendResult(s.ctx, storagetest.Result(2, "second", 50)))
	s.Require().NoError(s.storage.AppendResult(s.ctx, storagetest.Result(3, "top", 60)))

	rows, err := s.service.Top(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal([]string{"top", "first", "second"}, []string{rows[0].Username, rows[1].Username, rows[2].Username})
}

func (s *ServiceSuite) TestConfiguredSize() {
	service := New(s.storage, 2, testutil.NopLogger())
	for i := range 5 {
		s.Require().NoError(s.storage.AppendResult(s.ctx, storagetest.Result(i+1, "alice", int64(i))))
	}

	rows, err := service.Top(s.ctx)
	s.Require().NoError(err)
	s.Len(rows, 2)
}

func (s *ServiceSuite) TestStorageFailure() {
	service := New(testutil.FailingStorage{}, 10, testutil.NopLogger())
	_, err := service.Top(s.ctx)
	s.ErrorIs(err, model.ErrStorageUnavailable)
}
