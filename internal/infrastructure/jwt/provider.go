package jwtinfra

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bdgram/api/internal/config"
	"github.com/bdgram/api/internal/domain"
)

// Claims is the session token payload: the user's public profile plus the
// registered expiry.
type Claims struct {
	ID     int64   `json:"id"`
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Image  *string `json:"image"`
	Bio    *string `json:"bio"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens with the shared secret.
type Provider struct {
	secret       []byte
	tokenExpiry  time.Duration
	cookieExpiry time.Duration
}

func NewProvider(cfg *config.Config) *Provider {
	return &Provider{
		secret:       []byte(cfg.SecretKey),
		tokenExpiry:  cfg.TokenExpiry,
		cookieExpiry: cfg.CookieExpiry,
	}
}

// Sign issues a bearer token with the 1-hour expiry used by the REST login
// and profile-update endpoints.
func (p *Provider) Sign(u *domain.User) (string, error) {
	return p.sign(u, p.tokenExpiry)
}

// SignSession issues the longer-lived token stored in the browser session
// cookie for the provider flow.
func (p *Provider) SignSession(u *domain.User) (string, error) {
	return p.sign(u, p.cookieExpiry)
}

func (p *Provider) sign(u *domain.User, expiry time.Duration) (string, error) {
	claims := Claims{
		ID:     u.ID,
		UserID: u.UserID,
		Name:   u.Name,
		Email:  u.Email,
		Image:  u.Image,
		Bio:    u.Bio,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// CookieExpiry exposes the cookie session lifetime for Set-Cookie headers.
func (p *Provider) CookieExpiry() time.Duration { return p.cookieExpiry }
