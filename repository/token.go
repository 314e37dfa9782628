package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

const (
	ApplicationPrefix  = "SCORE_ADMIN"
	AccessTokenPrefix  = "ACCESS_TOKEN"
	RefreshTokenPrefix = "REFRESH_TOKEN"
)

// TokenStore keeps the operator's access and refresh token. Loads answer ""
// when the value is unset or the storage cannot be reached; saves and removals
// are best-effort. Storage failures are logged and never returned.
type TokenStore interface {
	LoadAccessToken(ctx context.Context) string
	SaveAccessToken(ctx context.Context, token string)
	RemoveAccessToken(ctx context.Context)
	LoadRefreshToken(ctx context.Context) string
	SaveRefreshToken(ctx context.Context, token string)
	RemoveRefreshToken(ctx context.Context)
	Clear(ctx context.Context)
}

type redisTokenStore struct {
	db        *goredis.Client
	namespace string
}

// NewRedisTokenStore stores both tokens under fixed keys scoped by namespace.
// Keys carry no TTL: a session lasts until it is cleared.
func NewRedisTokenStore(client *goredis.Client, namespace string) TokenStore {
	return &redisTokenStore{
		db:        client,
		namespace: namespace,
	}
}

func (s *redisTokenStore) key(prefix string) string {
	return fmt.Sprintf("%s:%s:%s", ApplicationPrefix, prefix, s.namespace)
}

func (s *redisTokenStore) load(ctx context.Context, prefix string) string {
	key := s.key(prefix)
	value, err := s.db.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return ""
	}
	if err != nil {
		logger.Context(ctx).Warn(&model.StorageError{Op: "load", Key: key, Err: err})
		return ""
	}
	return value
}

func (s *redisTokenStore) save(ctx context.Context, prefix, token string) {
	key := s.key(prefix)
	if err := s.db.Set(ctx, key, token, 0).Err(); err != nil {
		logger.Context(ctx).Warn(&model.StorageError{Op: "save", Key: key, Err: err})
	}
}

func (s *redisTokenStore) remove(ctx context.Context, prefix string) {
	key := s.key(prefix)
	if err := s.db.Del(ctx, key).Err(); err != nil {
		logger.Context(ctx).Warn(&model.StorageError{Op: "remove", Key: key, Err: err})
	}
}

func (s *redisTokenStore) LoadAccessToken(ctx context.Context) string {
	return s.load(ctx, AccessTokenPrefix)
}

func (s *redisTokenStore) SaveAccessToken(ctx context.Context, token string) {
	s.save(ctx, AccessTokenPrefix, token)
}

func (s *redisTokenStore) RemoveAccessToken(ctx context.Context) {
	s.remove(ctx, AccessTokenPrefix)
}

func (s *redisTokenStore) LoadRefreshToken(ctx context.Context) string {
	return s.load(ctx, RefreshTokenPrefix)
}

func (s *redisTokenStore) SaveRefreshToken(ctx context.Context, token string) {
	s.save(ctx, RefreshTokenPrefix, token)
}

func (s *redisTokenStore) RemoveRefreshToken(ctx context.Context) {
	s.remove(ctx, RefreshTokenPrefix)
}

func (s *redisTokenStore) Clear(ctx context.Context) {
	s.RemoveAccessToken(ctx)
	s.RemoveRefreshToken(ctx)
}
