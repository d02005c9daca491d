// Package user contains the backend account entity used for API access:
// admins and operators, distinct from the mirrored end-user profiles.
package user

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/meetscribe/meetscribe/internal/shared/biztime"
)

// Role is the access level carried in issued tokens.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is a backend account.
type User struct {
	id                     uint
	email                  string
	name                   string
	passwordHash           string
	role                   Role
	emailVerified          bool
	verificationToken      *string
	verificationExpiresAt  *time.Time
	createdAt              time.Time
	updatedAt              time.Time
}

// NewUser creates an unverified account with a fresh verification token.
func NewUser(email, name, passwordHash string, role Role, verificationTTL time.Duration) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	expires := now.Add(verificationTTL)
	return &User{
		email:                 email,
		name:                  name,
		passwordHash:          passwordHash,
		role:                  role,
		verificationToken:     &token,
		verificationExpiresAt: &expires,
		createdAt:             now,
		updatedAt:             now,
	}, nil
}

// ReconstructUser rebuilds a user from persistence.
func ReconstructUser(
	id uint,
	email, name, passwordHash string,
	role Role,
	emailVerified bool,
	verificationToken *string,
	verificationExpiresAt *time.Time,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user id cannot be zero")
	}
	return &User{
		id:                    id,
		email:                 email,
		name:                  name,
		passwordHash:          passwordHash,
		role:                  role,
		emailVerified:         emailVerified,
		verificationToken:     verificationToken,
		verificationExpiresAt: verificationExpiresAt,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}, nil
}

func (u *User) ID() uint { return u.id }
func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user id already set")
	}
	u.id = id
	return nil
}
func (u *User) Email() string                     { return u.email }
func (u *User) Name() string                      { return u.name }
func (u *User) PasswordHash() string              { return u.passwordHash }
func (u *User) Role() Role                        { return u.role }
func (u *User) EmailVerified() bool               { return u.emailVerified }
func (u *User) VerificationToken() *string        { return u.verificationToken }
func (u *User) VerificationExpiresAt() *time.Time { return u.verificationExpiresAt }
func (u *User) CreatedAt() time.Time              { return u.createdAt }
func (u *User) UpdatedAt() time.Time              { return u.updatedAt }

// VerifyEmail consumes a verification token.
func (u *User) VerifyEmail(token string) error {
	if u.emailVerified {
		return fmt.Errorf("email already verified")
	}
	if u.verificationToken == nil || *u.verificationToken != token {
		return fmt.Errorf("invalid verification token")
	}
	if u.verificationExpiresAt != nil && u.verificationExpiresAt.Before(biztime.NowUTC()) {
		return fmt.Errorf("verification token expired")
	}
	u.emailVerified = true
	u.verificationToken = nil
	u.verificationExpiresAt = nil
	u.updatedAt = biztime.NowUTC()
	return nil
}

// UpdateDetails replaces name and role.
func (u *User) UpdateDetails(name string, role Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q", role)
	}
	u.name = name
	u.role = role
	u.updatedAt = biztime.NowUTC()
	return nil
}

// ChangePasswordHash replaces the stored password hash.
func (u *User) ChangePasswordHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("password hash is required")
	}
	u.passwordHash = hash
	u.updatedAt = biztime.NowUTC()
	return nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
