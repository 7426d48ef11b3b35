package department

import "context"

// Repository persists the department tree and the manager grant set.
type Repository interface {
	GetByID(ctx context.Context, id uint) (Department, error)
	GetAll(ctx context.Context) ([]Department, error)
	Create(ctx context.Context, d Department) (Department, error)

	// DescendantIDsByPathPrefix returns ids of departments whose path starts
	// with the given prefix, including the owner of the prefix itself.
	DescendantIDsByPathPrefix(ctx context.Context, pathPrefix string) ([]uint, error)

	UpdateParent(ctx context.Context, id uint, parentID *uint) error
	UpdatePath(ctx context.Context, id uint, path string) error

	// ManagedDepartmentIDs returns the departments an employee is explicitly
	// declared a manager of. Distinct from the structural tree.
	ManagedDepartmentIDs(ctx context.Context, employeeID uint) ([]uint, error)
	AssignManager(ctx context.Context, departmentID, employeeID uint) error
	RemoveManager(ctx context.Context, departmentID, employeeID uint) error
}
