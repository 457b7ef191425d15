package entity

import (
	"time"

	"github.com/oksasatya/identity-service/internal/domain/valueobject"
)

// User is the aggregate root for the identity domain. Passwords are stored
// only as bcrypt digests; ID is assigned by the persistence layer on first
// save and stays zero until then.
type User struct {
	ID          int64
	Email       valueobject.Email
	Username    string
	Password    valueobject.HashedPassword
	FullName    string
	IsActive    bool
	IsVerified  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

// NewUser builds an unpersisted user: active, unverified, timestamps set to
// now. Email and username are fixed for the lifetime of the aggregate.
func NewUser(email valueobject.Email, username string, password valueobject.HashedPassword, fullName string) *User {
	now := time.Now().UTC()
	return &User{
		Email:      email,
		Username:   username,
		Password:   password,
		FullName:   fullName,
		IsActive:   true,
		IsVerified: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Persisted reports whether the persistence layer has assigned an identifier.
func (u *User) Persisted() bool { return u.ID != 0 }

// CanLogin is true only while the account is active.
func (u *User) CanLogin() bool { return u.IsActive }

// UpdateLastLogin records a successful authentication; other fields are
// untouched.
func (u *User) UpdateLastLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
}

// ChangePassword swaps the stored digest and bumps the update timestamp.
func (u *User) ChangePassword(password valueobject.HashedPassword) {
	u.Password = password
	u.UpdatedAt = time.Now().UTC()
}

// Verify marks the email as confirmed. Triggered by an explicit verification
// action, never at registration time.
func (u *User) Verify() {
	u.IsVerified = true
	u.UpdatedAt = time.Now().UTC()
}

// Deactivate blocks future logins.
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
}
