package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/storage/secret"
	"github.com/mcoot/ftdgame/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini *miniredis.Miniredis
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.Init(NewWithClient(client, secret.NewHasher(bcrypt.MinCost)))
}

func (s *StorageSuite) TearDownTest() {
	s.Suite.TearDownTest()
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSecretIsNotStoredInPlaintext() {
	ctx := context.Background()
	s.Require().NoError(s.Storage.CreateIdentity(ctx, storagetest.Identity("alice"), "pass123"))

	raw, err := s.mini.Get(identityKey("alice"))
	s.Require().NoError(err)
	s.NotContains(raw, "pass123")
}

func (s *StorageSuite) TestAppendResultIndexesLeaderboard() {
	ctx := context.Background()
	s.Require().NoError(s.Storage.AppendResult(ctx, storagetest.Result(1, "alice", 42)))

	score, err := s.mini.ZScore(leaderboardKey(), string(storagetest.Result(1, "alice", 42).ID))
	s.Require().NoError(err)
	s.Equal(float64(42), score)
}

func (s *StorageSuite) TestTopResultsIncludesAllTiesAtCutoff() {
	ctx := context.Background()
	// Three results tied at the cutoff; the earliest two must win
	s.Require().NoError(s.Storage.AppendResult(ctx, storagetest.Result(1, "a", 10)))
	s.Require().NoError(s.Storage.AppendResult(ctx, storagetest.Result(2, "b", 10)))
	s.Require().NoError(s.Storage.AppendResult(ctx, storagetest.Result(3, "c", 10)))
	s.Require().NoError(s.Storage.AppendResult(ctx, storagetest.Result(4, "d", 99)))

	results, err := s.Storage.TopResults(ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal([]string{"d", "a", "b"}, []string{results[0].Username, results[1].Username, results[2].Username})
}

func (s *StorageSuite) TestStorageErrorsAreNotDomainErrors() {
	ctx := context.Background()
	s.mini.SetError("connection lost")

	_, err := s.Storage.GetIdentity(ctx, "alice")
	s.Require().Error(err)
	s.NotErrorIs(err, model.ErrNotFound)

	s.mini.SetError("")
}
