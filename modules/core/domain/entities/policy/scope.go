package policy

import "sort"

// Scope is the materialized data-visibility boundary produced by resolution.
// A row is visible when the scope is global, when its owner column matches
// the bound employee, or when its department column is in the department set.
// A scope with no bindings matches nothing.
type Scope struct {
	winner      ScopeType
	global      bool
	employeeID  uint
	departments map[uint]struct{}
}

// GlobalScope matches every row.
func GlobalScope() Scope {
	return Scope{winner: ScopeGlobal, global: true}
}

// OwnScope matches rows owned by the given employee.
func OwnScope(employeeID uint) Scope {
	return Scope{winner: ScopeOwn, employeeID: employeeID}
}

// DepartmentsScope matches rows belonging to any of the given departments.
func DepartmentsScope(winner ScopeType, departmentIDs ...uint) Scope {
	s := Scope{winner: winner, departments: make(map[uint]struct{}, len(departmentIDs))}
	for _, id := range departmentIDs {
		s.departments[id] = struct{}{}
	}
	return s
}

// NothingScope matches no rows. A legal outcome, not an error: e.g. a
// managed-departments policy held by someone who manages nothing.
func NothingScope(winner ScopeType) Scope {
	return Scope{winner: winner}
}

// Winner reports which scope type won resolution, for audit trails.
func (s Scope) Winner() ScopeType { return s.winner }

func (s Scope) IsGlobal() bool { return s.global }

// IsNothing reports whether the scope matches no rows at all.
func (s Scope) IsNothing() bool {
	return !s.global && s.employeeID == 0 && len(s.departments) == 0
}

// EmployeeID returns the bound owner, zero when none.
func (s Scope) EmployeeID() uint { return s.employeeID }

// DepartmentIDs returns the department set in ascending order.
func (s Scope) DepartmentIDs() []uint {
	out := make([]uint, 0, len(s.departments))
	for id := range s.departments {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ContainsDepartment reports whether the scope covers the department.
func (s Scope) ContainsDepartment(id uint) bool {
	if s.global {
		return true
	}
	_, ok := s.departments[id]
	return ok
}

// UnionDepartments widens the scope with additional departments. Custom
// candidates are folded in this way, in addition to the ladder winner.
// A global scope absorbs the union unchanged.
func (s Scope) UnionDepartments(departmentIDs []uint) Scope {
	if s.global || len(departmentIDs) == 0 {
		return s
	}
	merged := make(map[uint]struct{}, len(s.departments)+len(departmentIDs))
	for id := range s.departments {
		merged[id] = struct{}{}
	}
	for _, id := range departmentIDs {
		merged[id] = struct{}{}
	}
	s.departments = merged
	return s
}
