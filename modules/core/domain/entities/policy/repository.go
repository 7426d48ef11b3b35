package policy

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CatalogRepository serves the administrator-curated reference data. Changed
// rarely, read constantly.
type CatalogRepository interface {
	ResourceTypes(ctx context.Context) ([]ResourceType, error)
	Actions(ctx context.Context) ([]Action, error)
	Policies(ctx context.Context) ([]Policy, error)
	GetPolicy(ctx context.Context, id uuid.UUID) (Policy, error)
	CreatePolicy(ctx context.Context, p Policy) error
}

// AssignmentRepository answers which policies a user can reach through roles
// or direct grants, and maintains those grants.
type AssignmentRepository interface {
	// CandidatePolicies returns every active policy for (resource, action)
	// reachable via any of roleIDs or via a non-expired direct user grant.
	// The result is de-duplicated by policy id before it is returned.
	CandidatePolicies(ctx context.Context, userID uint, roleIDs []uuid.UUID, resource, action string) ([]Policy, error)

	AssignToRole(ctx context.Context, roleID, policyID uuid.UUID) error
	RevokeFromRole(ctx context.Context, roleID, policyID uuid.UUID) error
	AssignToUser(ctx context.Context, userID uint, policyID uuid.UUID, expiresAt *time.Time) error
	RevokeFromUser(ctx context.Context, userID uint, policyID uuid.UUID) error
}
