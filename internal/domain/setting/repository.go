package setting

import "context"

// Repository is the persistence contract for email settings.
type Repository interface {
	Create(ctx context.Context, s *EmailSetting) error
	GetByKey(ctx context.Context, key string) (*EmailSetting, error)
	GetByID(ctx context.Context, id uint) (*EmailSetting, error)
	List(ctx context.Context) ([]*EmailSetting, error)
	Update(ctx context.Context, s *EmailSetting) error
	Delete(ctx context.Context, id uint) error
}
