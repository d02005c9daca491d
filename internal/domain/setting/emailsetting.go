// Package setting contains operator-editable settings, currently the email
// templates read by the notification triggers.
package setting

import (
	"fmt"
	"time"

	"github.com/meetscribe/meetscribe/internal/shared/biztime"
)

// EmailSetting is one editable email template, looked up by key. When a key
// has no active row the notifier falls back to hardcoded text.
type EmailSetting struct {
	id        uint
	key       string
	subject   string
	body      string // markdown, rendered to HTML at send time
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

// NewEmailSetting creates a template row.
func NewEmailSetting(key, subject, body string) (*EmailSetting, error) {
	if key == "" {
		return nil, fmt.Errorf("email setting key is required")
	}
	if subject == "" {
		return nil, fmt.Errorf("email setting subject is required")
	}
	now := biztime.NowUTC()
	return &EmailSetting{
		key:       key,
		subject:   subject,
		body:      body,
		isActive:  true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructEmailSetting rebuilds a template from persistence.
func ReconstructEmailSetting(id uint, key, subject, body string, isActive bool, createdAt, updatedAt time.Time) (*EmailSetting, error) {
	if id == 0 {
		return nil, fmt.Errorf("email setting id cannot be zero")
	}
	return &EmailSetting{
		id:        id,
		key:       key,
		subject:   subject,
		body:      body,
		isActive:  isActive,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (e *EmailSetting) ID() uint { return e.id }
func (e *EmailSetting) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("email setting id already set")
	}
	e.id = id
	return nil
}
func (e *EmailSetting) Key() string          { return e.key }
func (e *EmailSetting) Subject() string      { return e.subject }
func (e *EmailSetting) Body() string         { return e.body }
func (e *EmailSetting) IsActive() bool       { return e.isActive }
func (e *EmailSetting) CreatedAt() time.Time { return e.createdAt }
func (e *EmailSetting) UpdatedAt() time.Time { return e.updatedAt }

// UpdateContent replaces subject and body.
func (e *EmailSetting) UpdateContent(subject, body string) error {
	if subject == "" {
		return fmt.Errorf("email setting subject is required")
	}
	e.subject = subject
	e.body = body
	e.updatedAt = biztime.NowUTC()
	return nil
}

func (e *EmailSetting) Activate() {
	e.isActive = true
	e.updatedAt = biztime.NowUTC()
}

func (e *EmailSetting) Deactivate() {
	e.isActive = false
	e.updatedAt = biztime.NowUTC()
}
