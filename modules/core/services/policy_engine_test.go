package services

import (
	"context"
	"testing"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
	"github.com/cleanops/erp-sdk/pkg/authz"
	"github.com/cleanops/erp-sdk/pkg/eventbus"
)

type fakeAssignments struct {
	policies []policy.Policy
	calls    int
	err      error
}

func (f *fakeAssignments) CandidatePolicies(_ context.Context, _ uint, _ []uuid.UUID, resource, action string) ([]policy.Policy, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]policy.Policy, 0, len(f.policies))
	for _, p := range f.policies {
		if p.Resource == resource && p.Action == action {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeAssignments) AssignToRole(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (f *fakeAssignments) RevokeFromRole(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (f *fakeAssignments) AssignToUser(context.Context, uint, uuid.UUID, *time.Time) error {
	return nil
}
func (f *fakeAssignments) RevokeFromUser(context.Context, uint, uuid.UUID) error { return nil }

// HQ(1) -> Region(2) -> Branch(3).
type fakeHierarchy struct {
	managed map[uint][]uint
}

func (f *fakeHierarchy) DescendantsOf(_ context.Context, id uint) ([]uint, error) {
	switch id {
	case 1:
		return []uint{1, 2, 3}, nil
	case 2:
		return []uint{2, 3}, nil
	default:
		return []uint{id}, nil
	}
}

func (f *fakeHierarchy) AncestorsOf(_ context.Context, id uint) ([]uint, error) {
	switch id {
	case 3:
		return []uint{1, 2}, nil
	case 2:
		return []uint{1}, nil
	default:
		return nil, nil
	}
}

func (f *fakeHierarchy) SiblingIDs(_ context.Context, id uint) ([]uint, error) {
	return []uint{id, id + 10}, nil
}

func (f *fakeHierarchy) ManagedSubtreeIDs(_ context.Context, employeeID uint) ([]uint, error) {
	return f.managed[employeeID], nil
}

type fakeGate struct {
	allowed map[string]bool
}

func (f *fakeGate) Check(_ context.Context, req authz.Request) (bool, error) {
	return f.allowed[req.Subject+"|"+req.Object+"|"+req.Action], nil
}

func mkPolicy(name, resource, action string, scopeType policy.ScopeType, priority int) policy.Policy {
	return policy.Policy{
		ID:        uuid.New(),
		Name:      name,
		Resource:  resource,
		Action:    action,
		ScopeType: scopeType,
		Priority:  priority,
		IsActive:  true,
	}
}

func mkCustom(name, resource, action, predicate string, priority int) policy.Policy {
	p := mkPolicy(name, resource, action, policy.ScopeCustom, priority)
	p.ScopeConfig = predicate
	return p
}

func uptr(v uint) *uint { return &v }

func regionClerk() policy.UserContext {
	return policy.UserContext{
		UserID:       10,
		EmployeeID:   uptr(100),
		DepartmentID: uptr(2),
		RoleIDs:      []uuid.UUID{uuid.New()},
	}
}

func newTestEngine(t *testing.T, assignments *fakeAssignments, opts ...func(*engineDeps)) *PolicyEngine {
	t.Helper()
	deps := &engineDeps{
		hierarchy: &fakeHierarchy{managed: map[uint][]uint{}},
		cacheSize: 0,
	}
	for _, opt := range opts {
		opt(deps)
	}
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewPolicyEngine(assignments, deps.hierarchy, deps.gate, deps.publisher, deps.cacheSize, logger)
}

type engineDeps struct {
	hierarchy *fakeHierarchy
	gate      PermissionGate
	publisher eventbus.EventBus
	cacheSize int
}

func TestResolveScopeDeniesWithoutCandidates(t *testing.T) {
	engine := newTestEngine(t, &fakeAssignments{})
	_, err := engine.ResolveScope(context.Background(), regionClerk(), "employee", "view")
	require.ErrorIs(t, err, policy.ErrDenied)
	require.True(t, IsDenied(err))
}

func TestResolveScopeWidestWins(t *testing.T) {
	assignments := &fakeAssignments{policies: []policy.Policy{
		mkPolicy("own employee view", "employee", "view", policy.ScopeOwn, 10),
		mkPolicy("all employee view", "employee", "view", policy.ScopeGlobal, 50),
	}}
	engine := newTestEngine(t, assignments)

	scope, err := engine.ResolveScope(context.Background(), regionClerk(), "employee", "view")
	require.NoError(t, err)
	require.True(t, scope.IsGlobal())
	require.Equal(t, policy.ScopeGlobal, scope.Winner())
}

func TestWidestTieBreaksOnPriority(t *testing.T) {
	loose := mkPolicy("loose", "leave", "view", policy.ScopeDepartment, 20)
	tight := mkPolicy("tight", "leave", "view", policy.ScopeDepartment, 10)
	require.Equal(t, tight.ID, widest([]policy.Policy{loose, tight}).ID)
	require.Equal(t, tight.ID, widest([]policy.Policy{tight, loose}).ID)
}

func TestResolveScopeParentDepartmentTree(t *testing.T) {
	assignments := &fakeAssignments{policies: []policy.Policy{
		mkPolicy("division employee view", "employee", "view", policy.ScopeParentDepartmentTree, 10),
	}}
	engine := newTestEngine(t, assignments)

	scope, err := engine.ResolveScope(context.Background(), regionClerk(), "employee", "view")
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{2, 3}, scope.DepartmentIDs())
	require.True(t, scope.ContainsDepartment(3))
	require.False(t, scope.ContainsDepartment(1))
}

func TestResolveScopeGlobalHoliday(t *testing.T) {
	assignments := &fakeAssignments{policies: []policy.Policy{
		mkPolicy("holiday view", "holiday", "view", policy.ScopeGlobal, 10),
	}}
	engine := newTestEngine(t, assignments)

	// Department binding is irrelevant for a global policy.
	user := policy.UserContext{UserID: 55, RoleIDs: []uuid.UUID{uuid.New()}}
	scope, err := engine.ResolveScope(context.Background(), user, "holiday", "view")
	require.NoError(t, err)
	require.True(t, scope.IsGlobal())
}

func TestResolveScopeManagedDepartmentsEmptyIsNotAnError(t *testing.T) {
	assignments := &fakeAssignments{policies: []policy.Policy{
		mkPolicy("managed employee view", "employee", "view", policy.ScopeManagedDepartments, 20),
	}}
	engine := newTestEngine(t, assignments)

	scope, err := engine.ResolveScope(context.Background(), regionClerk(), "employee", "view")
	require.NoError(t, err)
	require.True(t, scope.IsNothing())
	require.False(t, scope.IsGlobal())
}

func TestResolveScopeManagedDepartments(t *testing.T) {
	assignments := &fakeAssignments{policies: []policy.Policy{
		mkPolicy("managed employee view", "employee", "view", policy.ScopeManagedDepartments, 20),
	}}
	hierarchy := &fakeHierarchy{managed: map[uint][]uint{100: {2, 3}}}
	engine := newTestEngine(t, assignments, func(d *engineDeps) { d.hierarchy = hierarchy })

	scope, err := engine.ResolveScope(context.Background(), regionClerk(), "employee", "view")
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{2, 3}, scope.DepartmentIDs())
}

func TestResolveScopeMissingIdentity(t *testing.T) {
	assignments := &fakeAssignments{policies: []policy.Policy{
		mkPolicy("own leave view", "leave", "view", policy.ScopeOwn, 10),
	}}
	engine := newTestEngine(t, assignments)

	user := policy.UserContext{UserID: 10, RoleIDs: []uuid.UUID{uuid.New()}}
	_, err := engine.ResolveScope(context.Background(), user, "leave", "view")
	require.ErrorIs(t, err, policy.ErrMissingIdentity)
}

func TestResolveScopeMissingDepartment(t *testing.T) {
	assignments := &fakeAssignments{policies: []policy.Policy{
		mkPolicy("department leave view", "leave", "view", policy.ScopeDepartment, 10),
	}}
	engine := newTestEngine(t, assignments)

	user := policy.UserContext{UserID: 10, EmployeeID: uptr(100)}
	_, err := engine.ResolveScope(context.Background(), user, "leave", "view")
	require.ErrorIs(t, err, policy.ErrMissingDepartment)
}

func TestResolveScopeCustomIsAdditive(t *testing.T) {
	assignments := &fakeAssignments{policies: []policy.Policy{
		mkPolicy("own leave view", "leave", "view", policy.ScopeOwn, 10),
		mkCustom("peer leave view", "leave", "view", CustomPeerDepartments, 30),
	}}
	engine := newTestEngine(t, assignments)

	scope, err := engine.ResolveScope(context.Background(), regionClerk(), "leave", "view")
	require.NoError(t, err)
	require.Equal(t, uint(100), scope.EmployeeID())
	require.ElementsMatch(t, []uint{2, 12}, scope.DepartmentIDs())
}

func TestResolveScopeCustomOnly(t *testing.T) {
	assignments := &fakeAssignments{policies: []policy.Policy{
		mkCustom("ancestor leave view", "leave", "view", CustomAncestors, 30),
	}}
	engine := newTestEngine(t, assignments)

	user := policy.UserContext{UserID: 10, DepartmentID: uptr(3)}
	scope, err := engine.ResolveScope(context.Background(), user, "leave", "view")
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{1, 2}, scope.DepartmentIDs())
}

func TestResolveScopeUnknownCustomPredicateSkipped(t *testing.T) {
	assignments := &fakeAssignments{policies: []policy.Policy{
		mkCustom("mystery", "leave", "view", "not_registered", 30),
	}}
	engine := newTestEngine(t, assignments)

	scope, err := engine.ResolveScope(context.Background(), regionClerk(), "leave", "view")
	require.NoError(t, err)
	require.True(t, scope.IsNothing())
}

func TestResolveScopeManageOverride(t *testing.T) {
	gate := &fakeGate{allowed: map[string]bool{"user:10|employee|manage": true}}
	engine := newTestEngine(t, &fakeAssignments{}, func(d *engineDeps) { d.gate = gate })

	scope, err := engine.ResolveScope(context.Background(), regionClerk(), "employee", "view")
	require.NoError(t, err)
	require.True(t, scope.IsGlobal())
}

func TestResolveScopeUnavailableStore(t *testing.T) {
	assignments := &fakeAssignments{err: gerrors.New("connection refused")}
	engine := newTestEngine(t, assignments)

	_, err := engine.ResolveScope(context.Background(), regionClerk(), "employee", "view")
	require.ErrorIs(t, err, policy.ErrResolutionUnavailable)
	require.False(t, IsDenied(err))
}

func TestCheckViaCandidates(t *testing.T) {
	assignments := &fakeAssignments{policies: []policy.Policy{
		mkPolicy("own leave view", "leave", "view", policy.ScopeOwn, 10),
	}}
	engine := newTestEngine(t, assignments)

	require.True(t, engine.Check(context.Background(), regionClerk(), "leave.view"))
	require.False(t, engine.Check(context.Background(), regionClerk(), "leave.delete"))
}

func TestCheckViaGate(t *testing.T) {
	gate := &fakeGate{allowed: map[string]bool{"user:10|vehicle|approve": true}}
	engine := newTestEngine(t, &fakeAssignments{}, func(d *engineDeps) { d.gate = gate })

	require.True(t, engine.Check(context.Background(), regionClerk(), "vehicle.approve"))
	require.False(t, engine.Check(context.Background(), regionClerk(), "vehicle.delete"))
}

func TestDedupeByID(t *testing.T) {
	p := mkPolicy("dup", "leave", "view", policy.ScopeOwn, 10)
	out := dedupeByID([]policy.Policy{p, p, mkPolicy("other", "leave", "view", policy.ScopeOwn, 20)})
	require.Len(t, out, 2)
}

func TestCandidateCacheInvalidation(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	bus := eventbus.NewEventPublisher(logger)

	assignments := &fakeAssignments{policies: []policy.Policy{
		mkPolicy("holiday view", "holiday", "view", policy.ScopeGlobal, 10),
	}}
	engine := newTestEngine(t, assignments, func(d *engineDeps) {
		d.publisher = bus
		d.cacheSize = 64
	})
	ctx := context.Background()
	user := regionClerk()

	_, err := engine.ResolveScope(ctx, user, "holiday", "view")
	require.NoError(t, err)
	_, err = engine.ResolveScope(ctx, user, "holiday", "view")
	require.NoError(t, err)
	require.Equal(t, 1, assignments.calls)

	// A direct grant change for this user drops the cached candidates.
	bus.Publish(policy.UserPolicyChangedEvent{UserID: user.UserID, PolicyID: uuid.New()})
	_, err = engine.ResolveScope(ctx, user, "holiday", "view")
	require.NoError(t, err)
	require.Equal(t, 2, assignments.calls)

	// A role-level change purges everything.
	_, err = engine.ResolveScope(ctx, user, "holiday", "view")
	require.NoError(t, err)
	require.Equal(t, 2, assignments.calls)
	bus.Publish(policy.RolePolicyChangedEvent{RoleID: uuid.New(), PolicyID: uuid.New()})
	_, err = engine.ResolveScope(ctx, user, "holiday", "view")
	require.NoError(t, err)
	require.Equal(t, 3, assignments.calls)
}
