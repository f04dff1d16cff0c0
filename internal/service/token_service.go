package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cyberblog/internal/model"
)

const minSecretLength = 32

// TokenService issues and verifies the signed session credentials carried
// in the auth-token cookie. Credentials are stateless: no server-side
// record exists and invalidation happens only through expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d characters", minSecretLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

func (s *TokenService) Issue(user model.User) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	})

	return token.SignedString(s.secret)
}

// Verify returns the decoded claims, or false for anything else: malformed
// input, wrong signing method, bad signature, expiry. Callers cannot tell
// these apart, which keeps verification failures from acting as an oracle.
func (s *TokenService) Verify(raw string) (*model.SessionClaims, bool) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}

	subject, ok := claimsMap["sub"].(float64)
	if !ok || subject <= 0 {
		return nil, false
	}

	claims := &model.SessionClaims{UserID: int(subject)}
	claims.Email, _ = claimsMap["email"].(string)
	claims.Role, _ = claimsMap["role"].(string)

	return claims, true
}

// TTL reports the configured validity window, used for the cookie max-age.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
