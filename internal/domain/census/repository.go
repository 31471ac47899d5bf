package census

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// LockCodePrefix serializes code generation for one prefix until the surrounding transaction ends.
	LockCodePrefix(ctx context.Context, prefix string) error
	ListCodesWithPrefix(ctx context.Context, prefix string) ([]string, error)

	Get(ctx context.Context, id int64) (*Record, error)
	GetView(ctx context.Context, id int64) (*RecordView, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]RecordView, int64, error)
	Create(ctx context.Context, record *Record) error
	Update(ctx context.Context, record *Record) error
	Delete(ctx context.Context, id int64) error
	DeleteDependents(ctx context.Context, id int64) error
	NationalIDTaken(ctx context.Context, nationalID string, exceptID int64) (bool, error)
}
