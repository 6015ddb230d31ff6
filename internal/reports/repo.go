package reports

import "context"

// Repo defines persistence operations for report metadata.
type Repo interface {
	Create(ctx context.Context, rep Report) error
	GetByID(ctx context.Context, id string) (Report, error)
}
