package seed

import (
	"context"

	"github.com/google/uuid"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
	"github.com/cleanops/erp-sdk/modules/core/permissions"
)

// Baseline catalog. IDs are fixed so repeated seeding is idempotent and
// role mappings can reference policies by constant.
var (
	EmployeeViewOwn = policy.Policy{
		ID:          uuid.MustParse("7c1f1f34-94a1-4a15-8a6f-1a8b8f6cf301"),
		Name:        "Employee view (own)",
		Description: "View only the caller's own employee record",
		Resource:    permissions.ResourceEmployee,
		Action:      permissions.ActionView,
		ScopeType:   policy.ScopeOwn,
		Priority:    10,
		IsActive:    true,
	}
	EmployeeViewDepartment = policy.Policy{
		ID:          uuid.MustParse("4be3e3a6-55dc-4ac6-9f68-47cbc52e8a02"),
		Name:        "Employee view (department)",
		Description: "View employees of the caller's home department",
		Resource:    permissions.ResourceEmployee,
		Action:      permissions.ActionView,
		ScopeType:   policy.ScopeDepartment,
		Priority:    20,
		IsActive:    true,
	}
	EmployeeViewManaged = policy.Policy{
		ID:          uuid.MustParse("9a53f8f3-0f4e-4f6a-bb6d-3bb8f4a3bd03"),
		Name:        "Employee view (managed departments)",
		Description: "View employees of departments the caller manages, subtrees included",
		Resource:    permissions.ResourceEmployee,
		Action:      permissions.ActionView,
		ScopeType:   policy.ScopeManagedDepartments,
		Priority:    30,
		IsActive:    true,
	}
	LeaveViewOwn = policy.Policy{
		ID:          uuid.MustParse("0d9b7a64-2f05-4f2e-9a3d-6a2e8d9bfa04"),
		Name:        "Leave view (own)",
		Description: "View only the caller's own leave records",
		Resource:    permissions.ResourceLeave,
		Action:      permissions.ActionView,
		ScopeType:   policy.ScopeOwn,
		Priority:    10,
		IsActive:    true,
	}
	LeaveViewDivision = policy.Policy{
		ID:          uuid.MustParse("6f0cd7a9-3a8e-49b5-b6cf-2e4f0a1c9d05"),
		Name:        "Leave view (division)",
		Description: "View leave across the caller's department subtree",
		Resource:    permissions.ResourceLeave,
		Action:      permissions.ActionView,
		ScopeType:   policy.ScopeParentDepartmentTree,
		Priority:    20,
		IsActive:    true,
	}
	LeaveApproveManaged = policy.Policy{
		ID:          uuid.MustParse("b4a9c3e1-7d26-4f80-8e5a-9c0d2b7e4f06"),
		Name:        "Leave approve (managed departments)",
		Description: "Approve leave for departments the caller manages",
		Resource:    permissions.ResourceLeave,
		Action:      permissions.ActionApprove,
		ScopeType:   policy.ScopeManagedDepartments,
		Priority:    10,
		IsActive:    true,
	}
	DepartmentViewOwn = policy.Policy{
		ID:          uuid.MustParse("e2c5b9d8-14f7-4a3b-bc6e-5d8a0f3e2107"),
		Name:        "Department view (own)",
		Description: "View the caller's own department",
		Resource:    permissions.ResourceDepartment,
		Action:      permissions.ActionView,
		ScopeType:   policy.ScopeDepartment,
		Priority:    10,
		IsActive:    true,
	}
	UserViewOwn = policy.Policy{
		ID:          uuid.MustParse("a7e4d2c9-86b1-4e5f-9d3a-0c2f8b6e4a08"),
		Name:        "User view (own)",
		Description: "View only the caller's own account",
		Resource:    permissions.ResourceUser,
		Action:      permissions.ActionView,
		ScopeType:   policy.ScopeOwn,
		Priority:    10,
		IsActive:    true,
	}
	HolidayViewAll = policy.Policy{
		ID:          uuid.MustParse("f3b8e6a1-5c29-4d74-8f0b-6e1a9d4c2b09"),
		Name:        "Holiday view (all)",
		Description: "View every holiday entry",
		Resource:    permissions.ResourceHoliday,
		Action:      permissions.ActionView,
		ScopeType:   policy.ScopeGlobal,
		Priority:    10,
		IsActive:    true,
	}
)

// All lists the baseline policies in seeding order.
var All = []policy.Policy{
	EmployeeViewOwn,
	EmployeeViewDepartment,
	EmployeeViewManaged,
	LeaveViewOwn,
	LeaveViewDivision,
	LeaveApproveManaged,
	DepartmentViewOwn,
	UserViewOwn,
	HolidayViewAll,
}

// Policies inserts the baseline catalog, skipping rows that already exist.
func Policies(ctx context.Context, catalog policy.CatalogRepository) error {
	existing, err := catalog.Policies(ctx)
	if err != nil {
		return err
	}
	present := make(map[uuid.UUID]struct{}, len(existing))
	for _, p := range existing {
		present[p.ID] = struct{}{}
	}
	for _, p := range All {
		if _, ok := present[p.ID]; ok {
			continue
		}
		if err := catalog.CreatePolicy(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
