package handlers

import (
	"time"

	"github.com/meetscribe/meetscribe/internal/domain/billing"
	"github.com/meetscribe/meetscribe/internal/domain/meeting"
	"github.com/meetscribe/meetscribe/internal/domain/profile"
	"github.com/meetscribe/meetscribe/internal/domain/setting"
	"github.com/meetscribe/meetscribe/internal/domain/user"
)

type ProfileDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProfileDTO(p *profile.Profile) ProfileDTO {
	return ProfileDTO{
		ID:        p.ID(),
		Email:     p.Email(),
		FullName:  p.FullName(),
		AvatarURL: p.AvatarURL(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func toProfileDTOs(items []*profile.Profile) []ProfileDTO {
	dtos := make([]ProfileDTO, 0, len(items))
	for _, p := range items {
		dtos = append(dtos, toProfileDTO(p))
	}
	return dtos
}

type MeetingDTO struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toMeetingDTO(m *meeting.Meeting) MeetingDTO {
	return MeetingDTO{
		ID:              m.ID(),
		UserID:          m.UserID(),
		Title:           m.Title(),
		Status:          m.Status().String(),
		StartedAt:       m.StartedAt(),
		EndedAt:         m.EndedAt(),
		DurationSeconds: m.DurationSeconds(),
		CreatedAt:       m.CreatedAt(),
	}
}

func toMeetingDTOs(items []*meeting.Meeting) []MeetingDTO {
	dtos := make([]MeetingDTO, 0, len(items))
	for _, m := range items {
		dtos = append(dtos, toMeetingDTO(m))
	}
	return dtos
}

type TranscriptDTO struct {
	ID           string    `json:"id"`
	MeetingID    string    `json:"meeting_id"`
	Speaker      string    `json:"speaker"`
	Text         string    `json:"text"`
	Timestamp    float64   `json:"timestamp"`
	LanguageCode *string   `json:"language_code,omitempty"`
	Confidence   *float64  `json:"confidence,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toTranscriptDTOs(items []*meeting.Transcript) []TranscriptDTO {
	dtos := make([]TranscriptDTO, 0, len(items))
	for _, t := range items {
		dtos = append(dtos, TranscriptDTO{
			ID:           t.ID(),
			MeetingID:    t.MeetingID(),
			Speaker:      t.Speaker(),
			Text:         t.Text(),
			Timestamp:    t.Timestamp(),
			LanguageCode: t.LanguageCode(),
			Confidence:   t.Confidence(),
			CreatedAt:    t.CreatedAt(),
		})
	}
	return dtos
}

type ChatMessageDTO struct {
	ID        string    `json:"id"`
	MeetingID string    `json:"meeting_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toChatMessageDTOs(items []*meeting.ChatMessage) []ChatMessageDTO {
	dtos := make([]ChatMessageDTO, 0, len(items))
	for _, m := range items {
		dtos = append(dtos, ChatMessageDTO{
			ID:        m.ID(),
			MeetingID: m.MeetingID(),
			Role:      string(m.Role()),
			Content:   m.Content(),
			CreatedAt: m.CreatedAt(),
		})
	}
	return dtos
}

type SummaryDTO struct {
	ID          string               `json:"id"`
	MeetingID   string               `json:"meeting_id"`
	SummaryText string               `json:"summary_text"`
	ActionItems []meeting.ActionItem `json:"action_items"`
	UserNotes   string               `json:"user_notes"`
	CreatedAt   time.Time            `json:"created_at"`
}

func toSummaryDTO(s *meeting.Summary) SummaryDTO {
	items := s.ActionItems()
	if items == nil {
		items = []meeting.ActionItem{}
	}
	return SummaryDTO{
		ID:          s.ID(),
		MeetingID:   s.MeetingID(),
		SummaryText: s.SummaryText(),
		ActionItems: items,
		UserNotes:   s.UserNotes(),
		CreatedAt:   s.CreatedAt(),
	}
}

type PlanDTO struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	StripeProductID string    `json:"stripe_product_id,omitempty"`
	StripePriceID   string    `json:"stripe_price_id,omitempty"`
	Interval        string    `json:"interval"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	TrialDays       int       `json:"trial_days"`
	Quota           *int      `json:"quota,omitempty"`
	Minutes         *int      `json:"minutes,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

func toPlanDTO(p *billing.Plan) PlanDTO {
	return PlanDTO{
		ID:              p.ID(),
		Name:            p.Name(),
		StripeProductID: p.StripeProductID(),
		StripePriceID:   p.StripePriceID(),
		Interval:        string(p.Interval()),
		Amount:          p.Amount(),
		Currency:        p.Currency(),
		TrialDays:       p.TrialDays(),
		Quota:           p.Quota(),
		Minutes:         p.Minutes(),
		IsActive:        p.IsActive(),
		CreatedAt:       p.CreatedAt(),
	}
}

func toPlanDTOs(items []*billing.Plan) []PlanDTO {
	dtos := make([]PlanDTO, 0, len(items))
	for _, p := range items {
		dtos = append(dtos, toPlanDTO(p))
	}
	return dtos
}

type SubscriptionDTO struct {
	ID                 uint       `json:"id"`
	UserID             string     `json:"user_id"`
	Type               string     `json:"type"`
	StripeID           string     `json:"stripe_id,omitempty"`
	Status             string     `json:"status"`
	StripePrice        string     `json:"stripe_price,omitempty"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	IsActive           bool       `json:"is_active"`
}

func toSubscriptionDTO(s *billing.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		ID:                 s.ID(),
		UserID:             s.UserID(),
		Type:               s.Type(),
		StripeID:           s.StripeID(),
		Status:             s.StripeStatus(),
		StripePrice:        s.StripePrice(),
		CurrentPeriodStart: s.CurrentPeriodStart(),
		CurrentPeriodEnd:   s.CurrentPeriodEnd(),
		IsActive:           s.IsActive(),
	}
}

type UserDTO struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func toUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:            u.ID(),
		Email:         u.Email(),
		Name:          u.Name(),
		Role:          string(u.Role()),
		EmailVerified: u.EmailVerified(),
		CreatedAt:     u.CreatedAt(),
	}
}

func toUserDTOs(items []*user.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(items))
	for _, u := range items {
		dtos = append(dtos, toUserDTO(u))
	}
	return dtos
}

type EmailSettingDTO struct {
	ID        uint      `json:"id"`
	Key       string    `json:"key"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toEmailSettingDTO(s *setting.EmailSetting) EmailSettingDTO {
	return EmailSettingDTO{
		ID:        s.ID(),
		Key:       s.Key(),
		Subject:   s.Subject(),
		Body:      s.Body(),
		IsActive:  s.IsActive(),
		UpdatedAt: s.UpdatedAt(),
	}
}

func toEmailSettingDTOs(items []*setting.EmailSetting) []EmailSettingDTO {
	dtos := make([]EmailSettingDTO, 0, len(items))
	for _, s := range items {
		dtos = append(dtos, toEmailSettingDTO(s))
	}
	return dtos
}
