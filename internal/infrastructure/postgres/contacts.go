package postgres

import (
	"context"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/bdgram/api/internal/domain"
)

// ContactRepo provides typed operations on the contact table.
type ContactRepo struct {
	mgr *Manager
}

func NewContactRepo(mgr *Manager) *ContactRepo {
	return &ContactRepo{mgr: mgr}
}

// Add inserts a contact pair. The unique (caller_id, receiver_id) constraint
// turns duplicate inserts into a conflict without a separate existence check.
func (r *ContactRepo) Add(ctx context.Context, callerID, receiverID string) error {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return err
	}
	data := map[string]interface{}{
		"caller_id":   callerID,
		"receiver_id": receiverID,
	}
	query, args, err := builder.BuildInsert("contact", []map[string]interface{}{data})
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	query, args = finalize(query, args)
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		if isConflict(err) {
			return fmt.Errorf("contact already exists: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

// ListByCaller returns the caller's contacts joined with each receiver's
// public profile.
func (r *ContactRepo) ListByCaller(ctx context.Context, callerID string) ([]domain.ContactEntry, error) {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	const query = `
		SELECT
			contact.id, contact.caller_id, contact.receiver_id,
			u.user_id, u.name, u.email, u.image, u.bio
		FROM contact
		JOIN "user" u ON contact.receiver_id = u.user_id
		WHERE contact.caller_id = $1
		ORDER BY contact.id`
	var entries []domain.ContactEntry
	if err := db.SelectContext(ctx, &entries, query, callerID); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ContactRepo) Delete(ctx context.Context, id int64) error {
	db, err := r.mgr.Acquire(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM contact WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("contact not found: %w", domain.ErrNotFound)
	}
	return nil
}
