package user

import "context"

// Filter narrows user listings.
type Filter struct {
	Role    string
	Search  string
	Page    int
	PerPage int
}

// Repository is the persistence contract for backend accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByVerificationToken(ctx context.Context, token string) (*User, error)
	List(ctx context.Context, filter Filter) ([]*User, int64, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uint) error
}

// PasswordHasher abstracts password hashing for the application layer.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}
