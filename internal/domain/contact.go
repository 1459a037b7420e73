package domain

// Contact links a caller to a receiver, both by 6-digit user_id.
type Contact struct {
	ID         int64  `json:"id" db:"id"`
	CallerID   string `json:"caller_id" db:"caller_id"`
	ReceiverID string `json:"receiver_id" db:"receiver_id"`
}

// ContactEntry is a contact row joined with the receiver's public profile.
type ContactEntry struct {
	Contact
	UserID string  `json:"user_id" db:"user_id"`
	Name   string  `json:"name" db:"name"`
	Email  string  `json:"email" db:"email"`
	Image  *string `json:"image" db:"image"`
	Bio    *string `json:"bio" db:"bio"`
}

type AddContactRequest struct {
	CallerID   string `json:"caller_id" validate:"required"`
	ReceiverID string `json:"receiver_id" validate:"required"`
}
