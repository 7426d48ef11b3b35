package services

import (
	"context"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
)

// Built-in custom predicates. scope_config on a custom policy names one of
// these; resource modules may register more.
const (
	// CustomPeerDepartments covers the departments sharing the user's
	// immediate parent, the user's own included.
	CustomPeerDepartments = "peer_departments"
	// CustomAncestors covers the chain of departments above the user's own.
	CustomAncestors = "ancestors"
)

func registerBuiltinResolvers(e *PolicyEngine, hierarchy HierarchyProvider) {
	e.RegisterCustomResolver(CustomPeerDepartments, func(ctx context.Context, user policy.UserContext) ([]uint, error) {
		if !user.HasDepartment() {
			return nil, nil
		}
		return hierarchy.SiblingIDs(ctx, *user.DepartmentID)
	})
	e.RegisterCustomResolver(CustomAncestors, func(ctx context.Context, user policy.UserContext) ([]uint, error) {
		if !user.HasDepartment() {
			return nil, nil
		}
		return hierarchy.AncestorsOf(ctx, *user.DepartmentID)
	})
}
