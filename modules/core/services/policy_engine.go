package services

import (
	"context"
	"errors"
	"sort"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
	"github.com/cleanops/erp-sdk/pkg/authz"
	"github.com/cleanops/erp-sdk/pkg/eventbus"
)

// PermissionGate answers permission-key questions (route guards and the
// resource.manage override). pkg/authz.Service satisfies it.
type PermissionGate interface {
	Check(ctx context.Context, req authz.Request) (bool, error)
}

// HierarchyProvider is the department tree surface the engine materializes
// scopes against. org/services.HierarchyService satisfies it.
type HierarchyProvider interface {
	DescendantsOf(ctx context.Context, id uint) ([]uint, error)
	AncestorsOf(ctx context.Context, id uint) ([]uint, error)
	SiblingIDs(ctx context.Context, id uint) ([]uint, error)
	ManagedSubtreeIDs(ctx context.Context, employeeID uint) ([]uint, error)
}

// CustomResolver materializes a registered custom predicate into a
// department set. The engine does not interpret custom scopes further.
type CustomResolver func(ctx context.Context, user policy.UserContext) ([]uint, error)

const manageAction = "manage"

// PolicyEngine is the single authority on how much data a user may see or
// modify for a resource and action. Resolution is a pure function of the
// user context and the assignment tables at call time; the only
// cross-request state is the candidate cache, invalidated on writes.
type PolicyEngine struct {
	assignments policy.AssignmentRepository
	hierarchy   HierarchyProvider
	gate        PermissionGate
	cache       *candidateCache
	custom      map[string]CustomResolver
	logger      *logrus.Entry
}

// NewPolicyEngine wires the engine. gate may be nil when no permission-key
// overrides are configured. cacheSize <= 0 disables candidate caching.
func NewPolicyEngine(
	assignments policy.AssignmentRepository,
	hierarchy HierarchyProvider,
	gate PermissionGate,
	publisher eventbus.EventBus,
	cacheSize int,
	logger *logrus.Logger,
) *PolicyEngine {
	e := &PolicyEngine{
		assignments: assignments,
		hierarchy:   hierarchy,
		gate:        gate,
		custom:      make(map[string]CustomResolver),
		logger:      logger.WithField("component", "core.policy_engine"),
	}
	if cacheSize > 0 {
		e.cache = newCandidateCache(cacheSize, publisher)
	}
	registerBuiltinResolvers(e, hierarchy)
	return e
}

// RegisterCustomResolver binds a named predicate for ScopeCustom policies.
// Resource modules register their own predicates at startup.
func (e *PolicyEngine) RegisterCustomResolver(name string, resolver CustomResolver) {
	e.custom[name] = resolver
}

// ResolveScope resolves the effective data scope for (user, resource,
// action). No candidate policy means ErrDenied; callers translate every
// error into a forbidden response or an empty result set, never into
// default-allow.
func (e *PolicyEngine) ResolveScope(ctx context.Context, user policy.UserContext, resource, action string) (policy.Scope, error) {
	start := time.Now()
	scope, err := e.resolve(ctx, user, resource, action)
	recordResolutionMetrics(scope, err, time.Since(start))
	return scope, err
}

func (e *PolicyEngine) resolve(ctx context.Context, user policy.UserContext, resource, action string) (policy.Scope, error) {
	if e.hasManageOverride(ctx, user, resource) {
		return policy.GlobalScope(), nil
	}

	candidates, err := e.candidates(ctx, user, resource, action)
	if err != nil {
		return policy.Scope{}, gerrors.Wrapf(policy.ErrResolutionUnavailable, "%v", err)
	}
	if len(candidates) == 0 {
		e.logger.WithContext(ctx).WithFields(logrus.Fields{
			"user_id":  user.UserID,
			"resource": resource,
			"action":   action,
		}).Debug("scope denied, no candidate policy")
		return policy.Scope{}, policy.ErrDenied
	}

	standard, custom := splitCandidates(candidates)

	var scope policy.Scope
	switch {
	case len(standard) > 0:
		winner := widest(standard)
		scope, err = e.materialize(ctx, user, winner)
		if err != nil {
			return policy.Scope{}, err
		}
	default:
		scope = policy.NothingScope(policy.ScopeCustom)
	}

	for _, p := range custom {
		ids, err := e.resolveCustom(ctx, user, p)
		if err != nil {
			return policy.Scope{}, err
		}
		scope = scope.UnionDepartments(ids)
	}
	return scope, nil
}

// Check answers the boolean route-guard form: is there at least one grant,
// via permission key or candidate policy, for "resource.action"?
func (e *PolicyEngine) Check(ctx context.Context, user policy.UserContext, permissionKey string) bool {
	resource, action := authz.SplitPermissionKey(permissionKey)

	if e.gate != nil {
		allowed, err := e.gate.Check(ctx, authz.NewRequest(authz.SubjectForUser(user.UserID), resource, action))
		if err != nil {
			e.logger.WithContext(ctx).WithError(err).Warn("permission gate check failed")
		} else if allowed {
			return true
		}
	}

	candidates, err := e.candidates(ctx, user, resource, action)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Warn("candidate lookup failed, failing closed")
		return false
	}
	return len(candidates) > 0
}

func (e *PolicyEngine) hasManageOverride(ctx context.Context, user policy.UserContext, resource string) bool {
	if e.gate == nil {
		return false
	}
	allowed, err := e.gate.Check(ctx, authz.NewRequest(authz.SubjectForUser(user.UserID), resource, manageAction))
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).Warn("manage override check failed, ignoring override")
		return false
	}
	return allowed
}

func (e *PolicyEngine) candidates(ctx context.Context, user policy.UserContext, resource, action string) ([]policy.Policy, error) {
	if e.cache != nil {
		if cached, ok := e.cache.get(user, resource, action); ok {
			return cached, nil
		}
	}
	fetched, err := e.assignments.CandidatePolicies(ctx, user.UserID, user.RoleIDs, resource, action)
	if err != nil {
		return nil, err
	}
	deduped := dedupeByID(fetched)
	if e.cache != nil {
		e.cache.set(user, resource, action, deduped)
	}
	return deduped, nil
}

func (e *PolicyEngine) materialize(ctx context.Context, user policy.UserContext, winner policy.Policy) (policy.Scope, error) {
	switch winner.ScopeType {
	case policy.ScopeOwn:
		if !user.HasEmployee() {
			return policy.Scope{}, policy.ErrMissingIdentity
		}
		return policy.OwnScope(*user.EmployeeID), nil

	case policy.ScopeDepartment:
		if !user.HasDepartment() {
			return policy.Scope{}, policy.ErrMissingDepartment
		}
		return policy.DepartmentsScope(policy.ScopeDepartment, *user.DepartmentID), nil

	case policy.ScopeManagedDepartments:
		// Managing nothing is legal and matches nothing.
		if !user.HasEmployee() {
			return policy.NothingScope(policy.ScopeManagedDepartments), nil
		}
		ids, err := e.hierarchy.ManagedSubtreeIDs(ctx, *user.EmployeeID)
		if err != nil {
			return policy.Scope{}, gerrors.Wrapf(policy.ErrResolutionUnavailable, "%v", err)
		}
		if len(ids) == 0 {
			return policy.NothingScope(policy.ScopeManagedDepartments), nil
		}
		return policy.DepartmentsScope(policy.ScopeManagedDepartments, ids...), nil

	case policy.ScopeParentDepartmentTree:
		if !user.HasDepartment() {
			return policy.Scope{}, policy.ErrMissingDepartment
		}
		ids, err := e.hierarchy.DescendantsOf(ctx, *user.DepartmentID)
		if err != nil {
			return policy.Scope{}, gerrors.Wrapf(policy.ErrResolutionUnavailable, "%v", err)
		}
		return policy.DepartmentsScope(policy.ScopeParentDepartmentTree, ids...), nil

	case policy.ScopeGlobal:
		return policy.GlobalScope(), nil

	default:
		return policy.Scope{}, gerrors.Wrapf(policy.ErrResolutionUnavailable, "unhandled scope type %s", winner.ScopeType)
	}
}

func (e *PolicyEngine) resolveCustom(ctx context.Context, user policy.UserContext, p policy.Policy) ([]uint, error) {
	resolver, ok := e.custom[p.ScopeConfig]
	if !ok {
		e.logger.WithContext(ctx).WithFields(logrus.Fields{
			"policy_id": p.ID,
			"predicate": p.ScopeConfig,
		}).Warn("custom scope predicate not registered, skipping")
		return nil, nil
	}
	ids, err := resolver(ctx, user)
	if err != nil {
		return nil, gerrors.Wrapf(policy.ErrResolutionUnavailable, "custom predicate %s: %v", p.ScopeConfig, err)
	}
	return ids, nil
}

func dedupeByID(policies []policy.Policy) []policy.Policy {
	seen := make(map[uuid.UUID]struct{}, len(policies))
	out := policies[:0]
	for _, p := range policies {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func splitCandidates(policies []policy.Policy) (standard, custom []policy.Policy) {
	for _, p := range policies {
		if p.ScopeType == policy.ScopeCustom {
			custom = append(custom, p)
			continue
		}
		standard = append(standard, p)
	}
	return standard, custom
}

// widest picks the broadest candidate on the breadth ladder; equal breadth
// falls back to the lower priority value for audit stability.
func widest(policies []policy.Policy) policy.Policy {
	sorted := make([]policy.Policy, len(policies))
	copy(sorted, policies)
	sort.SliceStable(sorted, func(i, j int) bool {
		bi, bj := sorted[i].ScopeType.Breadth(), sorted[j].ScopeType.Breadth()
		if bi != bj {
			return bi > bj
		}
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted[0]
}

// IsDenied reports whether err is a plain deny outcome, as opposed to a
// binding or infrastructure failure.
func IsDenied(err error) bool {
	return errors.Is(err, policy.ErrDenied)
}
