package policy

import "github.com/google/uuid"

// Assignment change events. Caches keyed by the affected role or user must
// drop their entries when one of these is published; a stale grant is a
// security defect, so invalidation is on-write, never time-based alone.

type RolePolicyChangedEvent struct {
	RoleID   uuid.UUID
	PolicyID uuid.UUID
}

type UserPolicyChangedEvent struct {
	UserID   uint
	PolicyID uuid.UUID
}

type DepartmentManagerChangedEvent struct {
	DepartmentID uint
	EmployeeID   uint
}
