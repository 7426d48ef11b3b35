package persistence

import (
	"fmt"
	"strings"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
)

// ScopeCondition renders a resolved scope into a SQL predicate over the
// given department and owner columns, with placeholders starting at
// $argOffset. Every scoped read path attaches the result to its WHERE
// clause, so the result set is limited by construction.
//
// A global scope renders TRUE; a scope with no bindings renders FALSE.
func ScopeCondition(s policy.Scope, deptColumn, empColumn string, argOffset int) (string, []any) {
	if s.IsGlobal() {
		return "TRUE", nil
	}
	if s.IsNothing() {
		return "FALSE", nil
	}

	parts := make([]string, 0, 2)
	args := make([]any, 0, 2)
	next := argOffset

	if s.EmployeeID() != 0 && empColumn != "" {
		parts = append(parts, fmt.Sprintf("%s = $%d", empColumn, next))
		args = append(args, int64(s.EmployeeID()))
		next++
	}
	if ids := s.DepartmentIDs(); len(ids) > 0 && deptColumn != "" {
		converted := make([]int64, len(ids))
		for i, id := range ids {
			converted[i] = int64(id)
		}
		parts = append(parts, fmt.Sprintf("%s = ANY($%d)", deptColumn, next))
		args = append(args, converted)
		next++
	}

	if len(parts) == 0 {
		// Bindings exist but no column accepts them; fail closed.
		return "FALSE", nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}
