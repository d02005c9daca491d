package profile

import "context"

// Filter narrows profile listings.
type Filter struct {
	Email   string
	Search  string
	Page    int
	PerPage int
}

// Repository is the persistence contract for profiles.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	List(ctx context.Context, filter Filter) ([]*Profile, int64, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
