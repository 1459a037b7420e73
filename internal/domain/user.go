package domain

import "time"

// User is a row in the "user" table. OTP and OTPExpiresAt hold the pending
// password-recovery code: both null or both set, never one without the other.
// OTP stores a sha256 hex digest, never the plaintext code.
type User struct {
	ID           int64      `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password"`
	Bio          *string    `json:"bio" db:"bio"`
	Image        *string    `json:"image" db:"image"`
	OTP          *string    `json:"-" db:"otp"`
	OTPExpiresAt *time.Time `json:"-" db:"otp_expires_at"`
}

type SignUpRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OldPassword string `json:"oldPassword" validate:"required"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
	Email       string `json:"email" validate:"required,email"`
}

// UserInfo is the public lookup row served by /log.
type UserInfo struct {
	UserID string `json:"user_id" db:"user_id"`
	Name   string `json:"name" db:"name"`
}

// UpdateProfileRequest carries the JSON part of a profile update. The image
// file, when present, arrives separately as multipart form data. Clients send
// the 6-digit id under either "user_id" or "id"; the handler folds ID into
// UserID before validation.
type UpdateProfileRequest struct {
	UserID string `json:"user_id" validate:"required"`
	ID     string `json:"id" validate:"-"`
	Name   string `json:"name" validate:"required"`
	Bio    string `json:"bio" validate:"required"`
}
