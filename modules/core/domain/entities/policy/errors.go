package policy

import "github.com/cleanops/erp-sdk/pkg/serrors"

// Resolution outcomes are typed results, not control-flow exceptions.
// Callers translate every one of them into "forbidden" or an empty result
// set, never into default-allow.
var (
	// ErrDenied means no candidate policy applies. Expected and common.
	ErrDenied = serrors.NewError(
		"SCOPE_DENIED",
		"no applicable policy",
		"Scopes.Denied",
	)

	// ErrMissingIdentity means an own-scoped policy won but the user context
	// has no employee binding. An onboarding defect, not a user mistake.
	ErrMissingIdentity = serrors.NewError(
		"SCOPE_MISSING_IDENTITY",
		"scope requires an employee binding the user lacks",
		"Scopes.MissingIdentity",
	)

	// ErrMissingDepartment means a department-scoped policy won but the user
	// context has no home department.
	ErrMissingDepartment = serrors.NewError(
		"SCOPE_MISSING_DEPARTMENT",
		"scope requires a home department the user lacks",
		"Scopes.MissingDepartment",
	)

	// ErrResolutionUnavailable wraps transient store failures. Callers must
	// fail closed.
	ErrResolutionUnavailable = serrors.NewError(
		"SCOPE_UNAVAILABLE",
		"scope resolution unavailable",
		"Scopes.Unavailable",
	)
)
