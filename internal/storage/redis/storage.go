package redis

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/storage"
	"github.com/mcoot/ftdgame/internal/storage/secret"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	hasher *secret.Hasher
}

// identityRecord is the JSON document stored per identity
type identityRecord struct {
	Identity   model.Identity `json:"identity"`
	SecretHash string         `json:"secret_hash"`
}

// New creates a new Redis storage instance
func New(ctx context.Context, cfg Config, hasher *secret.Hasher) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, oops.Code("STORAGE_REDIS_CONFIG").Wrap(err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, oops.Code("STORAGE_REDIS_CONNECT").With("url", opts.Addr).Wrap(err)
	}

	return NewWithClient(client, hasher), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, hasher *secret.Hasher) *Storage {
	if hasher == nil {
		hasher = secret.NewHasher(0)
	}
	return &Storage{
		client: client,
		hasher: hasher,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

func (s *Storage) CreateIdentity(ctx context.Context, identity *model.Identity, secret string) error {
	data, err := s.encodeIdentity(identity, secret)
	if err != nil {
		return err
	}

	// SETNX makes the username key the uniqueness constraint
	created, err := s.client.SetNX(ctx, identityKey(identity.Username), data, 0).Result()
	if err != nil {
		return oops.Code("STORAGE_REDIS_CREATE_IDENTITY").With("username", identity.Username).Wrap(err)
	}
	if !created {
		return model.ErrAlreadyExists
	}
	return nil
}

func (s *Storage) GetIdentity(ctx context.Context, username string) (*model.Identity, error) {
	rec, err := s.getRecord(ctx, username)
	if err != nil {
		return nil, err
	}
	return &rec.Identity, nil
}

func (s *Storage) IdentityExists(ctx context.Context, username string) (bool, error) {
	n, err := s.client.Exists(ctx, identityKey(username)).Result()
	if err != nil {
		return false, oops.Code("STORAGE_REDIS_IDENTITY_EXISTS").With("username", username).Wrap(err)
	}
	return n > 0, nil
}

func (s *Storage) VerifySecret(ctx context.Context, username, secret string) (bool, error) {
	rec, err := s.getRecord(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	ok, err := s.hasher.Verify(rec.SecretHash, secret)
	if err != nil {
		return false, oops.Code("STORAGE_REDIS_VERIFY_SECRET").With("username", username).Wrap(err)
	}
	return ok, nil
}

func (s *Storage) UpdateIdentity(ctx context.Context, identity *model.Identity, secret string) error {
	existing, err := s.getRecord(ctx, identity.Username)
	if err != nil {
		return err
	}

	updated := *identity
	updated.CreatedAt = existing.Identity.CreatedAt
	data, err := s.encodeIdentity(&updated, secret)
	if err != nil {
		return err
	}

	// SET XX only overwrites a key that still exists
	ok, err := s.client.SetXX(ctx, identityKey(identity.Username), data, 0).Result()
	if err != nil {
		return oops.Code("STORAGE_REDIS_UPDATE_IDENTITY").With("username", identity.Username).Wrap(err)
	}
	if !ok {
		return model.ErrNotFound
	}
	return nil
}

func (s *Storage) DeleteIdentity(ctx context.Context, username string) error {
	n, err := s.client.Del(ctx, identityKey(username)).Result()
	if err != nil {
		return oops.Code("STORAGE_REDIS_DELETE_IDENTITY").With("username", username).Wrap(err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Game result operations

func (s *Storage) AppendResult(ctx context.Context, result *model.GameResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return oops.Code("STORAGE_REDIS_APPEND_RESULT").Wrap(err)
	}

	// Use pipeline for atomic save + leaderboard update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, resultKey(result.ID), data, 0)
	pipe.ZAdd(ctx, leaderboardKey(), redis.Z{Score: float64(result.Score), Member: string(result.ID)})
	if _, err := pipe.Exec(ctx); err != nil {
		return oops.Code("STORAGE_REDIS_APPEND_RESULT").With("result_id", result.ID).Wrap(err)
	}
	return nil
}

func (s *Storage) TopResults(ctx context.Context, limit int) ([]model.GameResult, error) {
	if limit <= 0 {
		return []model.GameResult{}, nil
	}

	entries, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, oops.Code("STORAGE_REDIS_TOP_RESULTS").Wrap(err)
	}
	if len(entries) == 0 {
		return []model.GameResult{}, nil
	}

	// Redis orders equal scores by member in reverse; pull every result tied
	// with the cutoff so ties can be re-ordered by insertion
	if len(entries) == limit {
		cutoff := entries[len(entries)-1].Score
		entries, err = s.client.ZRevRangeByScoreWithScores(ctx, leaderboardKey(), &redis.ZRangeBy{
			Min: strconv.FormatFloat(cutoff, 'f', -1, 64),
			Max: "+inf",
		}).Result()
		if err != nil {
			return nil, oops.Code("STORAGE_REDIS_TOP_RESULTS").Wrap(err)
		}
	}

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = resultKey(model.ResultID(e.Member.(string)))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, oops.Code("STORAGE_REDIS_TOP_RESULTS").Wrap(err)
	}

	results := make([]model.GameResult, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Missing record
		}
		var r model.GameResult
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, oops.Code("STORAGE_REDIS_TOP_RESULTS").With("operation", "decode result").Wrap(err)
		}
		results = append(results, r)
	}

	slices.SortFunc(results, func(a, b model.GameResult) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Lifecycle

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return oops.Code("STORAGE_REDIS_PING").Wrap(err)
	}
	return nil
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) getRecord(ctx context.Context, username string) (*identityRecord, error) {
	data, err := s.client.Get(ctx, identityKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNotFound
		}
		return nil, oops.Code("STORAGE_REDIS_GET_IDENTITY").With("username", username).Wrap(err)
	}

	var rec identityRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, oops.Code("STORAGE_REDIS_GET_IDENTITY").With("username", username).Wrap(err)
	}
	return &rec, nil
}

func (s *Storage) encodeIdentity(identity *model.Identity, secret string) ([]byte, error) {
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, oops.Code("STORAGE_REDIS_HASH_SECRET").With("username", identity.Username).Wrap(err)
	}
	data, err := json.Marshal(identityRecord{Identity: *identity, SecretHash: hash})
	if err != nil {
		return nil, oops.Code("STORAGE_REDIS_ENCODE_IDENTITY").With("username", identity.Username).Wrap(err)
	}
	return data, nil
}
