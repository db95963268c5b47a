// Package auth выпускает и проверяет сессионные токены (HS256 JWT).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/MosinFAM/comment-threads/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNoSecret     = errors.New("empty signing secret")
)

type claims struct {
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// Issuer выпускает и проверяет токены сессии
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer создаёт Issuer с HMAC-ключом secret
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue подписывает токен для пользователя; sub - его id
func (i *Issuer) Issue(identity models.Identity) (string, error) {
	if identity.UserID == "" {
		return "", fmt.Errorf("auth.Issue: empty user id")
	}
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Nickname: identity.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth.Issue: %w", err)
	}
	return signed, nil
}

// Verify проверяет подпись и срок токена и возвращает пользователя
func (i *Issuer) Verify(token string) (*models.Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &models.Identity{UserID: c.Subject, Nickname: c.Nickname}, nil
}
