package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/bdgram/api/internal/domain"
)

// ContactStore is the contact persistence the service depends on.
type ContactStore interface {
	Add(ctx context.Context, callerID, receiverID string) error
	ListByCaller(ctx context.Context, callerID string) ([]domain.ContactEntry, error)
	Delete(ctx context.Context, id int64) error
}

// UserStore resolves user ids before a contact pair is written.
type UserStore interface {
	UserIDExists(ctx context.Context, userID string) (bool, error)
}

type Service interface {
	Add(ctx context.Context, req domain.AddContactRequest) error
	List(ctx context.Context, callerID string) ([]domain.ContactEntry, error)
	Remove(ctx context.Context, id int64) error
}

type service struct {
	contacts ContactStore
	users    UserStore
}

func NewService(contacts ContactStore, users UserStore) Service {
	return &service{contacts: contacts, users: users}
}

func (s *service) Add(ctx context.Context, req domain.AddContactRequest) error {
	if req.CallerID == req.ReceiverID {
		return fmt.Errorf("You cannot add yourself as a contact: %w", domain.ErrBadRequest)
	}
	exists, err := s.users.UserIDExists(ctx, req.ReceiverID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("User not found: %w", domain.ErrNotFound)
	}
	if err := s.contacts.Add(ctx, req.CallerID, req.ReceiverID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("Contact already exists: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, callerID string) ([]domain.ContactEntry, error) {
	entries, err := s.contacts.ListByCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("No contacts found: %w", domain.ErrNotFound)
	}
	return entries, nil
}

func (s *service) Remove(ctx context.Context, id int64) error {
	if err := s.contacts.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("Contact not found: %w", domain.ErrNotFound)
		}
		return err
	}
	return nil
}
