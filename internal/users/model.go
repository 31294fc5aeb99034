package users

import "time"

type User struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	FullName              string     `json:"fullName"`
	PictureURL            string     `json:"pictureUrl"`
	PasswordHash          string     `json:"-"`
	EmailVerifiedAt       *time.Time `json:"emailVerifiedAt,omitempty"`
	VerificationTokenHash string     `json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
	LastLoginAt           *time.Time `json:"lastLoginAt,omitempty"`
}

// Verified reports whether the user confirmed their email address.
func (u User) Verified() bool {
	return u.EmailVerifiedAt != nil
}
