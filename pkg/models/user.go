package models

import (
	"time"
)

// Identity is the signed-in user as reported by the identity provider.
// A nil *Identity is the anonymous session.
type Identity struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"creationTime"`
}

// Name is the display name, falling back to the email address.
func (u *Identity) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
