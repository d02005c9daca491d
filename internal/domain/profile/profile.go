// Package profile contains the mirrored end-user profile entity. Profiles
// originate in the remote datastore; the local rows are a one-way mirror
// maintained by the sync pass plus direct admin mutations.
package profile

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/shared/biztime"
)

// Profile represents an end user of the meeting assistant.
type Profile struct {
	id        string
	email     string
	fullName  string
	avatarURL string
	createdAt time.Time
	updatedAt time.Time
}

// NewProfile creates a profile with a generated id, for direct API creation.
func NewProfile(email, fullName, avatarURL string) (*Profile, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	now := biztime.NowUTC()
	return &Profile{
		id:        uuid.NewString(),
		email:     email,
		fullName:  fullName,
		avatarURL: avatarURL,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructProfile rebuilds a profile from persistence.
func ReconstructProfile(id, email, fullName, avatarURL string, createdAt, updatedAt time.Time) (*Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid profile id %q: %w", id, err)
	}
	return &Profile{
		id:        id,
		email:     email,
		fullName:  fullName,
		avatarURL: avatarURL,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (p *Profile) ID() string           { return p.id }
func (p *Profile) Email() string        { return p.email }
func (p *Profile) FullName() string     { return p.fullName }
func (p *Profile) AvatarURL() string    { return p.avatarURL }
func (p *Profile) CreatedAt() time.Time { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time { return p.updatedAt }

// UpdateDetails replaces the mutable profile attributes.
func (p *Profile) UpdateDetails(fullName, avatarURL string) {
	p.fullName = fullName
	p.avatarURL = avatarURL
	p.updatedAt = biztime.NowUTC()
}

// UpsertParams is the typed partial-attribute set applied by a sync upsert.
// Absent optional fields fall back to defaults instead of failing: a nil
// CreatedAt becomes the current time, nil strings become empty.
type UpsertParams struct {
	ID        string
	Email     string
	FullName  *string
	AvatarURL *string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// Validate checks the natural key before the upsert is attempted.
func (p UpsertParams) Validate() error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return fmt.Errorf("invalid profile id %q: %w", p.ID, err)
	}
	if p.Email == "" {
		return fmt.Errorf("profile %s: email is required", p.ID)
	}
	return nil
}
