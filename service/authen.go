package service

import (
	"context"
	"time"

	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/logger"
	"github.com/kinkando/score-admin/pkg/token"
	"github.com/kinkando/score-admin/repository"
)

type Authen interface {
	SignIn(ctx context.Context, req model.SignInRequest) (model.Session, error)
	SignOut(ctx context.Context)
	Session(ctx context.Context) model.Session
}

type authen struct {
	authRepository repository.Auth
	tokenStore     repository.TokenStore
	now            func() time.Time
}

func NewAuthenService(authRepository repository.Auth, tokenStore repository.TokenStore) Authen {
	return &authen{
		authRepository: authRepository,
		tokenStore:     tokenStore,
		now:            time.Now,
	}
}

// SignIn exchanges credentials for a token pair and keeps it as the console
// session. The tokens themselves never leave the console.
func (s *authen) SignIn(ctx context.Context, req model.SignInRequest) (model.Session, error) {
	jwt, err := s.authRepository.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.Session{}, err
	}

	s.tokenStore.SaveAccessToken(ctx, jwt.AccessToken)
	s.tokenStore.SaveRefreshToken(ctx, jwt.RefreshToken)

	logger.Context(ctx).Infof("authen: signed in as %s", req.Email)
	return s.Session(ctx), nil
}

func (s *authen) SignOut(ctx context.Context) {
	s.tokenStore.Clear(ctx)
	logger.Context(ctx).Info("authen: signed out")
}

// Session reports a session as long as a refresh token is usable: an expired
// access token is reissued by the request pipeline on the next call.
func (s *authen) Session(ctx context.Context) model.Session {
	now := s.now()

	refreshToken := s.tokenStore.LoadRefreshToken(ctx)
	if refreshToken == "" || token.IsExpiredAt(refreshToken, now) {
		return model.Session{}
	}
	refreshClaims, err := token.Decode(refreshToken)
	if err != nil {
		return model.Session{}
	}

	session := model.Session{
		SignedIn:  true,
		Subject:   refreshClaims.Subject,
		Role:      refreshClaims.Role,
		ExpiresAt: refreshClaims.ExpiresAt,
	}
	if accessClaims, err := token.Decode(s.tokenStore.LoadAccessToken(ctx)); err == nil {
		if accessClaims.Subject != "" {
			session.Subject = accessClaims.Subject
		}
		if accessClaims.Role != "" {
			session.Role = accessClaims.Role
		}
	}
	return session
}
