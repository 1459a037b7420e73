package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/didi/gendry/builder"

	"github.com/bdgram/api/internal/domain"
)

// UserRepo provides typed operations on the "user" table. Every call borrows
// the pool handle through the Manager, so a broken pool heals between
// requests instead of poisoning the repo.
type UserRepo struct {
	mgr *Manager
}

func NewUserRepo(mgr *Manager) *UserRepo {
	return &UserRepo{mgr: mgr}
}

const userColumns = `id, user_id, name, email, password, bio, image, otp, otp_expires_at`

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return err
	}
	data := map[string]interface{}{
		"user_id":  u.UserID,
		"name":     u.Name,
		"email":    u.Email,
		"password": u.PasswordHash,
		"bio":      u.Bio,
		"image":    u.Image,
	}
	query, args, err := builder.BuildInsert(`"user"`, []map[string]interface{}{data})
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	query, args = finalize(query, args)
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		if isConflict(err) {
			return fmt.Errorf("email already exists: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	var u domain.User
	err = db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM "user" WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	var u domain.User
	err = db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM "user" WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UserIDExists(ctx context.Context, userID string) (bool, error) {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return false, err
	}
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM "user" WHERE user_id = $1`, userID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `UPDATE "user" SET password = $1 WHERE email = $2`, passwordHash, email)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SetOTP stores the digest and expiry in one statement, atomically replacing
// any prior pending code.
func (r *UserRepo) SetOTP(ctx context.Context, email, digest string, expiresAt time.Time) error {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		`UPDATE "user" SET otp = $1, otp_expires_at = $2 WHERE email = $3`,
		digest, expiresAt, email)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ActiveOTPDigest returns the stored digest for email when a time-valid code
// is pending. Never-requested and expired both come back as ErrNotFound.
func (r *UserRepo) ActiveOTPDigest(ctx context.Context, email string, now time.Time) (string, error) {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return "", err
	}
	var digest string
	err = db.GetContext(ctx, &digest,
		`SELECT otp FROM "user" WHERE email = $1 AND otp_expires_at > $2`, email, now)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("no active otp: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return digest, nil
}

// ConsumeOTP clears the pending code in a single conditional statement. It
// reports false when the row was already consumed, replaced, or expired, so
// the check-then-write race stays closed at the store.
func (r *UserRepo) ConsumeOTP(ctx context.Context, email, digest string, now time.Time) (bool, error) {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx,
		`UPDATE "user" SET otp = NULL, otp_expires_at = NULL
		 WHERE email = $1 AND otp = $2 AND otp_expires_at > $3`,
		email, digest, now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpdateProfile applies the given column updates to the row with user_id.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return err
	}
	query, args, err := builder.BuildUpdate(`"user"`, map[string]interface{}{"user_id": userID}, updates)
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	query, args = finalize(query, args)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *UserRepo) ImageByUserID(ctx context.Context, userID string) (*string, error) {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	var image *string
	err = db.GetContext(ctx, &image, `SELECT image FROM "user" WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (r *UserRepo) InfoByUserID(ctx context.Context, userID string) ([]domain.UserInfo, error) {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	var rows []domain.UserInfo
	if err := db.SelectContext(ctx, &rows,
		`SELECT user_id, name FROM "user" WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return rows, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return nil
}
