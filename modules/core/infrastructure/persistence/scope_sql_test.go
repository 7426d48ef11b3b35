package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
)

func TestScopeConditionGlobal(t *testing.T) {
	cond, args := ScopeCondition(policy.GlobalScope(), "department_id", "employee_id", 1)
	require.Equal(t, "TRUE", cond)
	require.Empty(t, args)
}

func TestScopeConditionNothing(t *testing.T) {
	cond, args := ScopeCondition(policy.NothingScope(policy.ScopeManagedDepartments), "department_id", "employee_id", 1)
	require.Equal(t, "FALSE", cond)
	require.Empty(t, args)
}

func TestScopeConditionOwn(t *testing.T) {
	cond, args := ScopeCondition(policy.OwnScope(42), "department_id", "employee_id", 3)
	require.Equal(t, "(employee_id = $3)", cond)
	require.Equal(t, []any{int64(42)}, args)
}

func TestScopeConditionDepartments(t *testing.T) {
	scope := policy.DepartmentsScope(policy.ScopeParentDepartmentTree, 2, 3)
	cond, args := ScopeCondition(scope, "department_id", "employee_id", 1)
	require.Equal(t, "(department_id = ANY($1))", cond)
	require.Equal(t, []any{[]int64{2, 3}}, args)
}

func TestScopeConditionOwnPlusCustomDepartments(t *testing.T) {
	scope := policy.OwnScope(42).UnionDepartments([]uint{5})
	cond, args := ScopeCondition(scope, "department_id", "employee_id", 1)
	require.Equal(t, "(employee_id = $1 OR department_id = ANY($2))", cond)
	require.Len(t, args, 2)
}

func TestScopeConditionFailsClosedWithoutColumns(t *testing.T) {
	cond, args := ScopeCondition(policy.OwnScope(42), "", "", 1)
	require.Equal(t, "FALSE", cond)
	require.Empty(t, args)
}
