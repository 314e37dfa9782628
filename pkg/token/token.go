// Package token inspects compact JWTs issued by the admin backend without
// verifying their signature. The console never holds the signing key; the
// claims are only read to decide whether a token is still worth sending.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/kinkando/score-admin/model"
	"github.com/mitchellh/mapstructure"
)

type Claims struct {
	ExpiresAt int64  `mapstructure:"exp"`
	IssuedAt  int64  `mapstructure:"iat"`
	Subject   string `mapstructure:"sub"`
	Role      string `mapstructure:"role"`
}

// Decode reads the payload segment of token. A token that is malformed or
// carries no exp claim yields model.ErrTokenInvalid.
func Decode(token string) (Claims, error) {
	if token == "" {
		return Claims{}, fmt.Errorf("%w: empty token", model.ErrTokenInvalid)
	}

	mapClaims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, mapClaims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}

	if _, ok := mapClaims["exp"]; !ok {
		return Claims{}, fmt.Errorf("%w: exp claim is missing", model.ErrTokenInvalid)
	}

	var claims Claims
	if err := mapstructure.WeakDecode(map[string]any(mapClaims), &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}
	return claims, nil
}

// IsExpired reports whether token is expired now.
func IsExpired(token string) bool {
	return IsExpiredAt(token, time.Now())
}

// IsExpiredAt reports whether exp lies strictly before now, at second
// granularity. Undecodable tokens are expired.
func IsExpiredAt(token string, now time.Time) bool {
	claims, err := Decode(token)
	if err != nil {
		return true
	}
	return claims.ExpiresAt < now.Unix()
}
