package policy

import (
	"time"

	"github.com/google/uuid"
)

// ResourceType is curated reference data naming a scopeable resource kind.
type ResourceType struct {
	ID   uint
	Name string
}

// Action is curated reference data naming an operation on a resource.
type Action struct {
	ID   uint
	Name string
}

// Policy describes how much data a holder may see for one resource+action.
// Who holds it lives in assignments, never here.
type Policy struct {
	ID          uuid.UUID
	Name        string
	Description string
	Resource    string
	Action      string
	ScopeType   ScopeType
	// ScopeConfig names the registered predicate for ScopeCustom policies.
	ScopeConfig string
	// Priority breaks ties among equal-breadth candidates; lower wins.
	Priority int
	IsActive bool
}

// RoleAssignment grants a policy to every holder of a role.
type RoleAssignment struct {
	RoleID   uuid.UUID
	PolicyID uuid.UUID
}

// UserAssignment grants a policy directly to one user, optionally expiring.
type UserAssignment struct {
	UserID    uint
	PolicyID  uuid.UUID
	ExpiresAt *time.Time
}

// UserContext carries the identity facts resolution needs. It is built once
// per request by the caller and passed by value; the engine never reads
// session state.
type UserContext struct {
	UserID       uint
	EmployeeID   *uint
	DepartmentID *uint
	RoleIDs      []uuid.UUID
}

// HasEmployee reports whether the user is bound to an employee record.
func (u UserContext) HasEmployee() bool {
	return u.EmployeeID != nil && *u.EmployeeID != 0
}

// HasDepartment reports whether the user has a home department.
func (u UserContext) HasDepartment() bool {
	return u.DepartmentID != nil && *u.DepartmentID != 0
}
