package persistence

import (
	"context"
	"errors"
	"fmt"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	corepersistence "github.com/cleanops/erp-sdk/modules/core/infrastructure/persistence"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
	"github.com/cleanops/erp-sdk/modules/hrm/domain/aggregates/employee"
	"github.com/cleanops/erp-sdk/pkg/composables"
)

const (
	deptColumn = "department_id"
	ownColumn  = "id"
)

type PgEmployeeRepository struct{}

func NewEmployeeRepository() employee.Repository {
	return &PgEmployeeRepository{}
}

func (r *PgEmployeeRepository) GetByID(ctx context.Context, id uint) (employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return employee.Employee{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT id, first_name, last_name, position, department_id
FROM hr_employees
WHERE id = $1
`, int64(id))

	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, gerrors.Wrapf(employee.ErrNotFound, "id %d", id)
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

func (r *PgEmployeeRepository) ListScoped(ctx context.Context, scope policy.Scope, params *employee.FindParams) ([]employee.Employee, error) {
	if params == nil {
		params = &employee.FindParams{}
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	cond, args := corepersistence.ScopeCondition(scope, deptColumn, ownColumn, 1)
	query := fmt.Sprintf(`
SELECT id, first_name, last_name, position, department_id
FROM hr_employees
WHERE %s
ORDER BY id
LIMIT $%d OFFSET $%d
`, cond, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]employee.Employee, 0, limit)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (r *PgEmployeeRepository) CountScoped(ctx context.Context, scope policy.Scope) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	cond, args := corepersistence.ScopeCondition(scope, deptColumn, ownColumn, 1)
	var count int64
	err = tx.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM hr_employees WHERE %s`, cond), args...).Scan(&count)
	return count, err
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp  employee.Employee
		id   int64
		dept *int64
	)
	if err := row.Scan(&id, &emp.FirstName, &emp.LastName, &emp.Position, &dept); err != nil {
		return employee.Employee{}, err
	}
	emp.ID = uint(id)
	if dept != nil {
		d := uint(*dept)
		emp.DepartmentID = &d
	}
	return emp, nil
}
