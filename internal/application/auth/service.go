package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bdgram/api/internal/domain"
	googleinfra "github.com/bdgram/api/internal/infrastructure/google"
	"github.com/bdgram/api/internal/pkg/otp"
)

// otpTTL is the validity window of a recovery code.
const otpTTL = 2 * time.Minute

// UserStore is the slice of the user repository the auth flows need.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UserIDExists(ctx context.Context, userID string) (bool, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	SetOTP(ctx context.Context, email, digest string, expiresAt time.Time) error
	ActiveOTPDigest(ctx context.Context, email string, now time.Time) (string, error)
	ConsumeOTP(ctx context.Context, email, digest string, now time.Time) (bool, error)
}

// Mailer delivers the plaintext recovery code out-of-band.
type Mailer interface {
	SendOTP(to, code string) error
}

// TokenSigner issues session tokens for a user.
type TokenSigner interface {
	Sign(u *domain.User) (string, error)
	SignSession(u *domain.User) (string, error)
}

// GoogleVerifier validates Google ID tokens for the provider sign-in flow.
type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (*googleinfra.Payload, error)
}

type Service interface {
	SignUp(ctx context.Context, req domain.SignUpRequest) (userID string, err error)
	Login(ctx context.Context, req domain.LoginRequest) (token string, user *domain.User, err error)
	GoogleLogin(ctx context.Context, idToken string) (token, cookieToken string, user *domain.User, err error)
	ChangePassword(ctx context.Context, req domain.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, email string) error
	ResendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type service struct {
	users    UserStore
	mailer   Mailer
	signer   TokenSigner
	verifier GoogleVerifier // nil when Google sign-in is not configured
}

func NewService(users UserStore, mailer Mailer, signer TokenSigner, verifier GoogleVerifier) Service {
	return &service{users: users, mailer: mailer, signer: signer, verifier: verifier}
}

func (s *service) SignUp(ctx context.Context, req domain.SignUpRequest) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	userID, err := s.freshUserID(ctx)
	if err != nil {
		return "", err
	}

	u := &domain.User{
		UserID:       userID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	// The unique email constraint turns a duplicate registration into a
	// conflict without a racy count-then-insert.
	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}
	return userID, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.User, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Same message as a wrong password, so login can't be used to
			// enumerate accounts.
			return "", nil, fmt.Errorf("Invalid email or password: %w", domain.ErrUnauthorized)
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, fmt.Errorf("Invalid email or password: %w", domain.ErrUnauthorized)
	}
	token, err := s.signer.Sign(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *service) GoogleLogin(ctx context.Context, idToken string) (string, string, *domain.User, error) {
	if s.verifier == nil {
		return "", "", nil, fmt.Errorf("google sign-in not configured: %w", domain.ErrBadRequest)
	}
	payload, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return "", "", nil, err
	}

	u, err := s.users.GetByEmail(ctx, payload.Email)
	if errors.Is(err, domain.ErrNotFound) {
		u, err = s.createGoogleUser(ctx, payload)
	}
	if err != nil {
		return "", "", nil, err
	}

	token, err := s.signer.Sign(u)
	if err != nil {
		return "", "", nil, err
	}
	cookieToken, err := s.signer.SignSession(u)
	if err != nil {
		return "", "", nil, err
	}
	return token, cookieToken, u, nil
}

// createGoogleUser provisions a row for a first-time Google sign-in. The
// password is random and unknown; such accounts log in through Google or run
// the recovery flow to set one.
func (s *service) createGoogleUser(ctx context.Context, payload *googleinfra.Payload) (*domain.User, error) {
	userID, err := s.freshUserID(ctx)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(raw)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		UserID:       userID,
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: string(hash),
	}
	if payload.Picture != "" {
		u.Image = &payload.Picture
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ChangePassword(ctx context.Context, req domain.ChangePasswordRequest) error {
	u, err := s.lookup(ctx, req.Email)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)); err != nil {
		return fmt.Errorf("Old password is incorrect: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, req.Email, string(hash))
}

// ForgotPassword generates a fresh recovery code, stores only its digest with
// a 2-minute expiry, and emails the plaintext code. A pending code, if any,
// is replaced in the same write.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.lookup(ctx, email); err != nil {
		return err
	}

	code, err := otp.NewCode()
	if err != nil {
		return err
	}
	if err := s.users.SetOTP(ctx, email, otp.Digest(code), time.Now().Add(otpTTL)); err != nil {
		return err
	}
	return s.mailer.SendOTP(email, code)
}

// ResendOTP has the identical contract: the new code permanently invalidates
// the previous one even inside its time window.
func (s *service) ResendOTP(ctx context.Context, email string) error {
	return s.ForgotPassword(ctx, email)
}

func (s *service) VerifyOTP(ctx context.Context, email, code string) error {
	now := time.Now()
	stored, err := s.users.ActiveOTPDigest(ctx, email, now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Never-requested and expired are deliberately indistinguishable.
			return fmt.Errorf("Invalid or expired OTP: %w", domain.ErrBadRequest)
		}
		return err
	}
	if stored != otp.Digest(code) {
		// Wrong code: the stored one stays usable for the rest of its window.
		return fmt.Errorf("Invalid OTP: %w", domain.ErrBadRequest)
	}
	consumed, err := s.users.ConsumeOTP(ctx, email, stored, now)
	if err != nil {
		return err
	}
	if !consumed {
		slog.Warn("otp consumed concurrently", "email", email)
		return fmt.Errorf("Invalid or expired OTP: %w", domain.ErrBadRequest)
	}
	return nil
}

// ResetPassword requires only that the email exists; it does not re-check the
// OTP verification state.
func (s *service) ResetPassword(ctx context.Context, email, newPassword string) error {
	if _, err := s.lookup(ctx, email); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, email, string(hash))
}

// lookup fetches a user by email, mapping a miss to the public message.
func (s *service) lookup(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("User not found: %w", domain.ErrNotFound)
	}
	return u, err
}

// freshUserID draws random 6-digit IDs until one is unused.
func (s *service) freshUserID(ctx context.Context) (string, error) {
	for {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%06d", n.Int64()+100000)
		taken, err := s.users.UserIDExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}
