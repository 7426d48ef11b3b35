package policy

import "fmt"

// ScopeType is the closed set of data-visibility rules a policy may carry.
type ScopeType int

const (
	ScopeOwn ScopeType = iota
	ScopeDepartment
	ScopeManagedDepartments
	ScopeParentDepartmentTree
	ScopeGlobal
	ScopeCustom
)

const customBreadth = -1

// Breadth positions standard scope types on the widening ladder
// Own < Department < ManagedDepartments < ParentDepartmentTree < Global.
// ScopeCustom is incomparable and returns a negative breadth; custom
// candidates are applied in addition to the ladder winner, never instead.
func (s ScopeType) Breadth() int {
	switch s {
	case ScopeOwn:
		return 0
	case ScopeDepartment:
		return 1
	case ScopeManagedDepartments:
		return 2
	case ScopeParentDepartmentTree:
		return 3
	case ScopeGlobal:
		return 4
	case ScopeCustom:
		return customBreadth
	default:
		return customBreadth
	}
}

func (s ScopeType) String() string {
	switch s {
	case ScopeOwn:
		return "own"
	case ScopeDepartment:
		return "department"
	case ScopeManagedDepartments:
		return "managed_departments"
	case ScopeParentDepartmentTree:
		return "parent_department_tree"
	case ScopeGlobal:
		return "global"
	case ScopeCustom:
		return "custom"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseScopeType converts the persisted enum value back into a ScopeType.
func ParseScopeType(raw string) (ScopeType, error) {
	switch raw {
	case "own":
		return ScopeOwn, nil
	case "department":
		return ScopeDepartment, nil
	case "managed_departments":
		return ScopeManagedDepartments, nil
	case "parent_department_tree":
		return ScopeParentDepartmentTree, nil
	case "global":
		return ScopeGlobal, nil
	case "custom":
		return ScopeCustom, nil
	default:
		return ScopeOwn, fmt.Errorf("policy: unknown scope type %q", raw)
	}
}
