package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
	"github.com/cleanops/erp-sdk/modules/core/permissions"
	"github.com/cleanops/erp-sdk/modules/hrm/domain/aggregates/employee"
	"github.com/cleanops/erp-sdk/pkg/composables"
)

// ScopeResolver is the slice of the policy engine this service needs.
// core/services.PolicyEngine satisfies it.
type ScopeResolver interface {
	ResolveScope(ctx context.Context, user policy.UserContext, resource, action string) (policy.Scope, error)
}

// EmployeeService reads employee data through the resolved scope. A denied
// or unbound resolution yields an empty result, never an unscoped query.
type EmployeeService struct {
	repo   employee.Repository
	engine ScopeResolver
	logger *logrus.Entry
}

func NewEmployeeService(repo employee.Repository, engine ScopeResolver, logger *logrus.Logger) *EmployeeService {
	return &EmployeeService{
		repo:   repo,
		engine: engine,
		logger: logger.WithField("component", "hrm.employee_service"),
	}
}

func (s *EmployeeService) List(ctx context.Context, params *employee.FindParams) ([]employee.Employee, error) {
	scope, ok, err := s.viewScope(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []employee.Employee{}, nil
	}
	return s.repo.ListScoped(ctx, scope, params)
}

func (s *EmployeeService) Count(ctx context.Context) (int64, error) {
	scope, ok, err := s.viewScope(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return s.repo.CountScoped(ctx, scope)
}

// GetByID fetches one employee and checks it against the caller's scope.
// Out-of-scope records report not found so scope probing cannot tell an
// absent record from a hidden one.
func (s *EmployeeService) GetByID(ctx context.Context, id uint) (employee.Employee, error) {
	scope, ok, err := s.viewScope(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}

	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if !visible(scope, emp) {
		return employee.Employee{}, employee.ErrNotFound
	}
	return emp, nil
}

// viewScope resolves the employee.view scope for the context user. The
// second return is false when the caller may see nothing at all.
func (s *EmployeeService) viewScope(ctx context.Context) (policy.Scope, bool, error) {
	user, err := composables.UseUser(ctx)
	if err != nil {
		return policy.Scope{}, false, err
	}

	scope, err := s.engine.ResolveScope(ctx, user, permissions.ResourceEmployee, permissions.ActionView)
	switch {
	case err == nil:
	case errors.Is(err, policy.ErrDenied),
		errors.Is(err, policy.ErrMissingIdentity),
		errors.Is(err, policy.ErrMissingDepartment):
		s.logger.WithContext(ctx).WithFields(logrus.Fields{
			"user_id": user.UserID,
			"reason":  err.Error(),
		}).Debug("employee list scoped to nothing")
		return policy.Scope{}, false, nil
	default:
		return policy.Scope{}, false, err
	}

	if scope.IsNothing() {
		return policy.Scope{}, false, nil
	}
	return scope, true, nil
}

func visible(scope policy.Scope, emp employee.Employee) bool {
	if scope.IsGlobal() {
		return true
	}
	if id := scope.EmployeeID(); id != 0 && id == emp.ID {
		return true
	}
	return emp.DepartmentID != nil && scope.ContainsDepartment(*emp.DepartmentID)
}
