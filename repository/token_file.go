package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/logger"
	"github.com/spf13/viper"
)

const (
	accessTokenFileKey  = "access_token"
	refreshTokenFileKey = "refresh_token"
)

type fileTokenStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStore keeps the session in a JSON document at path so it
// survives restarts of the console.
func NewFileTokenStore(path string) TokenStore {
	return &fileTokenStore{path: path}
}

// read returns the current document. A missing file is an empty session.
func (s *fileTokenStore) read() (*viper.Viper, error) {
	v := s.newDocument()
	v.SetConfigFile(s.path)

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, err
	}
	return v, nil
}

func (s *fileTokenStore) load(ctx context.Context, key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.read()
	if err != nil {
		logger.Context(ctx).Warn(&model.StorageError{Op: "load", Key: key, Err: err})
		return ""
	}
	return v.GetString(key)
}

func (s *fileTokenStore) write(ctx context.Context, op string, values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.read()
	if err != nil {
		// an unreadable document is replaced rather than patched
		logger.Context(ctx).Warn(&model.StorageError{Op: op, Key: s.path, Err: err})
		v = s.newDocument()
	}
	for key, value := range values {
		v.Set(key, value)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			logger.Context(ctx).Warn(&model.StorageError{Op: op, Key: s.path, Err: err})
			return
		}
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		logger.Context(ctx).Warn(&model.StorageError{Op: op, Key: s.path, Err: err})
	}
}

func (s *fileTokenStore) newDocument() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetConfigPermissions(0o600)
	return v
}

func (s *fileTokenStore) LoadAccessToken(ctx context.Context) string {
	return s.load(ctx, accessTokenFileKey)
}

func (s *fileTokenStore) SaveAccessToken(ctx context.Context, token string) {
	s.write(ctx, "save", map[string]string{accessTokenFileKey: token})
}

func (s *fileTokenStore) RemoveAccessToken(ctx context.Context) {
	s.write(ctx, "remove", map[string]string{accessTokenFileKey: ""})
}

func (s *fileTokenStore) LoadRefreshToken(ctx context.Context) string {
	return s.load(ctx, refreshTokenFileKey)
}

func (s *fileTokenStore) SaveRefreshToken(ctx context.Context, token string) {
	s.write(ctx, "save", map[string]string{refreshTokenFileKey: token})
}

func (s *fileTokenStore) RemoveRefreshToken(ctx context.Context) {
	s.write(ctx, "remove", map[string]string{refreshTokenFileKey: ""})
}

func (s *fileTokenStore) Clear(ctx context.Context) {
	s.write(ctx, "remove", map[string]string{accessTokenFileKey: "", refreshTokenFileKey: ""})
}
