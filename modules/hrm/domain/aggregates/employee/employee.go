package employee

import (
	"context"

	gerrors "github.com/go-faster/errors"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
)

var ErrNotFound = gerrors.New("employee not found")

type Employee struct {
	ID           uint
	FirstName    string
	LastName     string
	Position     string
	DepartmentID *uint
}

type FindParams struct {
	Limit  int
	Offset int
}

// Repository is a scoped data-access surface: every read takes the resolved
// scope and attaches it to the query, so results are bounded by
// construction.
type Repository interface {
	GetByID(ctx context.Context, id uint) (Employee, error)
	ListScoped(ctx context.Context, scope policy.Scope, params *FindParams) ([]Employee, error)
	CountScoped(ctx context.Context, scope policy.Scope) (int64, error)
}
