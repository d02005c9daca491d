// Package constants defines application-wide constants.
package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 15
	MaxPageSize     = 100
)

// Gin context keys set by the auth middleware.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
)

// Meeting statuses as mirrored from the remote datastore.
const (
	MeetingStatusLive      = "live"
	MeetingStatusEnded     = "ended"
	MeetingStatusScheduled = "scheduled"
)

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// Email template keys in the email_settings table.
const (
	EmailKeyAccountValidation        = "account_validation"
	EmailKeyWelcome                  = "welcome"
	EmailKeySubscriptionConfirmation = "subscription_confirmation"
)

// StarterPlanName is the fallback plan granted when a user has no active
// subscription.
const StarterPlanName = "Starter"
