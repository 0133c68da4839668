// Package models holds the persistent shapes shared by repositories and
// services.
package models

import "time"

// User is a registered identity. PasswordHash is the only form of the
// secret that is ever stored.
type User struct {
	ID           string    `db:"id"`
	UserName     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Avatar       string    `db:"avatar"`
	CreatedAt    time.Time `db:"created_at"`

	// pendingPassword holds a raw secret set through SetPassword until the
	// hasher turns it into PasswordHash. It is never persisted.
	pendingPassword string
	passwordDirty   bool
}

// SetPassword records a new raw secret and marks the credential dirty so it
// is hashed exactly once before the user is persisted.
func (u *User) SetPassword(raw string) {
	u.pendingPassword = raw
	u.passwordDirty = true
}

// PasswordDirty reports whether a raw secret is waiting to be hashed.
func (u *User) PasswordDirty() bool { return u.passwordDirty }

// TakePendingPassword returns the pending raw secret and clears it.
func (u *User) TakePendingPassword() string {
	raw := u.pendingPassword
	u.pendingPassword = ""
	u.passwordDirty = false
	return raw
}

// PublicProfile is the part of a User that may leave the server.
type PublicProfile struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, UserName: u.UserName, Email: u.Email}
}
