package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBreadthLadderOrdering(t *testing.T) {
	ladder := []ScopeType{
		ScopeOwn,
		ScopeDepartment,
		ScopeManagedDepartments,
		ScopeParentDepartmentTree,
		ScopeGlobal,
	}
	for i := 1; i < len(ladder); i++ {
		require.Greater(t, ladder[i].Breadth(), ladder[i-1].Breadth(),
			"%s must be broader than %s", ladder[i], ladder[i-1])
	}
	require.Negative(t, ScopeCustom.Breadth(), "custom is incomparable on the ladder")
}

func TestParseScopeTypeRoundTrip(t *testing.T) {
	for _, st := range []ScopeType{
		ScopeOwn, ScopeDepartment, ScopeManagedDepartments,
		ScopeParentDepartmentTree, ScopeGlobal, ScopeCustom,
	} {
		parsed, err := ParseScopeType(st.String())
		require.NoError(t, err)
		require.Equal(t, st, parsed)
	}

	_, err := ParseScopeType("everything")
	require.Error(t, err)
}

func TestScopeConstructors(t *testing.T) {
	global := GlobalScope()
	require.True(t, global.IsGlobal())
	require.False(t, global.IsNothing())
	require.True(t, global.ContainsDepartment(999))

	own := OwnScope(42)
	require.False(t, own.IsNothing())
	require.Equal(t, uint(42), own.EmployeeID())
	require.False(t, own.ContainsDepartment(1))

	depts := DepartmentsScope(ScopeManagedDepartments, 3, 1, 2)
	require.Equal(t, ScopeManagedDepartments, depts.Winner())
	require.Equal(t, []uint{1, 2, 3}, depts.DepartmentIDs())
	require.True(t, depts.ContainsDepartment(2))
	require.False(t, depts.ContainsDepartment(4))

	nothing := NothingScope(ScopeManagedDepartments)
	require.True(t, nothing.IsNothing())
	require.False(t, nothing.IsGlobal())
	require.False(t, nothing.ContainsDepartment(1))
}

func TestScopeUnionDepartments(t *testing.T) {
	base := DepartmentsScope(ScopeDepartment, 2)
	widened := base.UnionDepartments([]uint{5, 2, 7})
	require.Equal(t, []uint{2, 5, 7}, widened.DepartmentIDs())
	// The original is unchanged.
	require.Equal(t, []uint{2}, base.DepartmentIDs())

	own := OwnScope(42).UnionDepartments([]uint{9})
	require.Equal(t, uint(42), own.EmployeeID())
	require.True(t, own.ContainsDepartment(9))
	require.False(t, own.IsNothing())

	global := GlobalScope().UnionDepartments([]uint{1, 2})
	require.True(t, global.IsGlobal())
	require.Empty(t, global.DepartmentIDs())
}

func TestUserContextBindings(t *testing.T) {
	var u UserContext
	require.False(t, u.HasEmployee())
	require.False(t, u.HasDepartment())

	emp := uint(7)
	dept := uint(3)
	u = UserContext{UserID: 1, EmployeeID: &emp, DepartmentID: &dept}
	require.True(t, u.HasEmployee())
	require.True(t, u.HasDepartment())
}
