package user

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Get(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, role string) ([]User, error)
	Create(ctx context.Context, user *User) error
	// UpsertByEmail inserts or refreshes the user identified by email.
	UpsertByEmail(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	CountOwnedSchedules(ctx context.Context, userID int64) (int64, error)
}
