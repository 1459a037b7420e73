package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/bdgram/api/internal/domain"
	"github.com/bdgram/api/internal/pkg/id"
)

// UserStore is the subset of user persistence the profile flows need.
type UserStore interface {
	GetByUserID(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error
	ImageByUserID(ctx context.Context, userID string) (*string, error)
	InfoByUserID(ctx context.Context, userID string) ([]domain.UserInfo, error)
}

// ImageStore persists uploaded profile pictures and returns a public URL.
type ImageStore interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

type TokenSigner interface {
	Sign(u *domain.User) (string, error)
}

// Upload is an incoming multipart image file.
type Upload struct {
	Filename string
	Body     io.Reader
}

type Service interface {
	Update(ctx context.Context, req domain.UpdateProfileRequest, image *Upload) (string, *domain.User, error)
	Image(ctx context.Context, userID string) (string, error)
	Info(ctx context.Context, userID string) ([]domain.UserInfo, error)
}

type service struct {
	users  UserStore
	images ImageStore
	signer TokenSigner
}

func NewService(users UserStore, images ImageStore, signer TokenSigner) Service {
	return &service{users: users, images: images, signer: signer}
}

// Update rewrites the user's name and bio and, when an image file is attached,
// stores it and swaps the profile picture. It returns a freshly signed token so
// the client's session reflects the new claims immediately.
func (s *service) Update(ctx context.Context, req domain.UpdateProfileRequest, image *Upload) (string, *domain.User, error) {
	current, err := s.users.GetByUserID(ctx, req.UserID)
	if err != nil {
		return "", nil, err
	}

	updates := map[string]interface{}{
		"name": req.Name,
		"bio":  req.Bio,
	}

	if image != nil {
		key := req.UserID + "_" + id.New() + strings.ToLower(filepath.Ext(image.Filename))
		url, err := s.images.Save(ctx, key, image.Body)
		if err != nil {
			return "", nil, err
		}
		updates["image"] = url

		if current.Image != nil {
			if err := s.images.Delete(ctx, path.Base(*current.Image)); err != nil {
				slog.Warn("failed to remove previous profile image", "user_id", req.UserID, "error", err)
			}
		}
	}

	if err := s.users.UpdateProfile(ctx, req.UserID, updates); err != nil {
		return "", nil, err
	}

	updated, err := s.users.GetByUserID(ctx, req.UserID)
	if err != nil {
		return "", nil, err
	}

	token, err := s.signer.Sign(updated)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, updated, nil
}

// Image returns the profile picture URL for a user.
func (s *service) Image(ctx context.Context, userID string) (string, error) {
	img, err := s.users.ImageByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("User not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	if img == nil || *img == "" {
		return "", fmt.Errorf("No image found for this user: %w", domain.ErrNotFound)
	}
	return *img, nil
}

// Info returns the public lookup rows for a user id.
func (s *service) Info(ctx context.Context, userID string) ([]domain.UserInfo, error) {
	rows, err := s.users.InfoByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("User not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}
