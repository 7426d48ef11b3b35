package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/cleanops/erp-sdk/modules/org/domain/department"
	"github.com/cleanops/erp-sdk/pkg/composables"
)

type PgDepartmentRepository struct{}

func NewDepartmentRepository() department.Repository {
	return &PgDepartmentRepository{}
}

func (r *PgDepartmentRepository) GetByID(ctx context.Context, id uint) (department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return department.Department{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT id, name, parent_id, path
FROM departments
WHERE id = $1
`, int64(id))

	dept, err := scanDepartment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, gerrors.Wrapf(department.ErrNotFound, "id %d", id)
		}
		return department.Department{}, err
	}
	return dept, nil
}

func (r *PgDepartmentRepository) GetAll(ctx context.Context) ([]department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, name, parent_id, path
FROM departments
ORDER BY id
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]department.Department, 0, 64)
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, dept)
	}
	return out, rows.Err()
}

func (r *PgDepartmentRepository) Create(ctx context.Context, d department.Department) (department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return department.Department{}, err
	}

	var newID int64
	err = tx.QueryRow(ctx, `
INSERT INTO departments (name, parent_id, path)
VALUES ($1, $2, $3)
RETURNING id
`, d.Name, parentArg(d.ParentID), d.Path).Scan(&newID)
	if err != nil {
		return department.Department{}, gerrors.Wrap(err, "failed to create department")
	}
	d.ID = uint(newID)
	return d, nil
}

func (r *PgDepartmentRepository) DescendantIDsByPathPrefix(ctx context.Context, pathPrefix string) ([]uint, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	// Indexed prefix match over the materialized path; no recursive
	// traversal.
	rows, err := tx.Query(ctx, `
SELECT id
FROM departments
WHERE path LIKE $1 || '%'
ORDER BY id
`, pathPrefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (r *PgDepartmentRepository) UpdateParent(ctx context.Context, id uint, parentID *uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
UPDATE departments
SET parent_id = $2
WHERE id = $1
`, int64(id), parentArg(parentID))
	return err
}

func (r *PgDepartmentRepository) UpdatePath(ctx context.Context, id uint, path string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
UPDATE departments
SET path = $2
WHERE id = $1
`, int64(id), path)
	return err
}

func (r *PgDepartmentRepository) ManagedDepartmentIDs(ctx context.Context, employeeID uint) ([]uint, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT department_id
FROM department_managers
WHERE employee_id = $1
ORDER BY department_id
`, int64(employeeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (r *PgDepartmentRepository) AssignManager(ctx context.Context, departmentID, employeeID uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
INSERT INTO department_managers (department_id, employee_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, int64(departmentID), int64(employeeID))
	return err
}

func (r *PgDepartmentRepository) RemoveManager(ctx context.Context, departmentID, employeeID uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
DELETE FROM department_managers
WHERE department_id = $1 AND employee_id = $2
`, int64(departmentID), int64(employeeID))
	return err
}

func scanDepartment(row pgx.Row) (department.Department, error) {
	var (
		dept   department.Department
		id     int64
		parent *int64
	)
	if err := row.Scan(&id, &dept.Name, &parent, &dept.Path); err != nil {
		return department.Department{}, err
	}
	dept.ID = uint(id)
	if parent != nil {
		pid := uint(*parent)
		dept.ParentID = &pid
	}
	return dept, nil
}

func scanIDs(rows pgx.Rows) ([]uint, error) {
	out := make([]uint, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, uint(id))
	}
	return out, rows.Err()
}

func parentArg(parentID *uint) *int64 {
	if parentID == nil {
		return nil
	}
	v := int64(*parentID)
	return &v
}
