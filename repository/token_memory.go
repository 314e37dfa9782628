package repository

import (
	"context"
	"sync"
)

type memoryTokenStore struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

// NewMemoryTokenStore keeps the session for the lifetime of the process only.
func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{}
}

func (s *memoryTokenStore) LoadAccessToken(context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *memoryTokenStore) SaveAccessToken(_ context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *memoryTokenStore) RemoveAccessToken(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
}

func (s *memoryTokenStore) LoadRefreshToken(context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

func (s *memoryTokenStore) SaveRefreshToken(_ context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshToken = token
}

func (s *memoryTokenStore) RemoveRefreshToken(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshToken = ""
}

func (s *memoryTokenStore) Clear(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = "", ""
}
