package http

import (
	"context"
	"io"
	"time"

	"github.com/bdgram/api/internal/application/auth"
	"github.com/bdgram/api/internal/domain"
	jwtinfra "github.com/bdgram/api/internal/infrastructure/jwt"
)

// UserRepository is the minimal interface the router requires from the user store.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUserID(ctx context.Context, userID string) (*domain.User, error)
	UserIDExists(ctx context.Context, userID string) (bool, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	SetOTP(ctx context.Context, email, digest string, expiresAt time.Time) error
	ActiveOTPDigest(ctx context.Context, email string, now time.Time) (string, error)
	ConsumeOTP(ctx context.Context, email, digest string, now time.Time) (bool, error)
	UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error
	ImageByUserID(ctx context.Context, userID string) (*string, error)
	InfoByUserID(ctx context.Context, userID string) ([]domain.UserInfo, error)
}

// ContactRepository is the minimal interface the router requires from the contact store.
type ContactRepository interface {
	Add(ctx context.Context, callerID, receiverID string) error
	ListByCaller(ctx context.Context, callerID string) ([]domain.ContactEntry, error)
	Delete(ctx context.Context, id int64) error
}

// ImageStore is the minimal interface the router requires from the picture backend.
type ImageStore interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// Mailer delivers recovery codes.
type Mailer interface {
	SendOTP(to, code string) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo       UserRepository
	ContactRepo    ContactRepository
	Images         ImageStore
	Mailer         Mailer
	JWTProvider    *jwtinfra.Provider
	GoogleVerifier auth.GoogleVerifier
}
