package services

import (
	"context"

	gerrors "github.com/go-faster/errors"

	"github.com/cleanops/erp-sdk/modules/org/domain/department"
)

// RebuildAllPaths recomputes every materialized path from parent links,
// roots first, inside one transaction. Any cycle or dangling parent aborts
// the whole rebuild; the tree is never left half-rebuilt.
func (s *HierarchyService) RebuildAllPaths(ctx context.Context) error {
	return inTx(ctx, func(txCtx context.Context) error {
		rows, err := s.repo.GetAll(txCtx)
		if err != nil {
			return err
		}
		tree := department.NewTree(rows)

		order, err := tree.OrderedByDepth()
		if err != nil {
			return gerrors.Wrap(err, "path rebuild aborted")
		}

		rewritten := 0
		for _, id := range order {
			path, err := tree.ComputePath(id)
			if err != nil {
				return gerrors.Wrap(err, "path rebuild aborted")
			}
			node, _ := tree.Get(id)
			if node.Path == path {
				continue
			}
			if err := s.repo.UpdatePath(txCtx, id, path); err != nil {
				return err
			}
			rewritten++
		}

		s.logger.WithContext(txCtx).WithFields(map[string]interface{}{
			"departments": tree.Len(),
			"rewritten":   rewritten,
		}).Info("department paths rebuilt")
		return nil
	})
}

// Reparent moves a department under a new parent (nil for root) and
// recomputes the paths of the moved subtree in the same transaction.
func (s *HierarchyService) Reparent(ctx context.Context, id uint, newParentID *uint) error {
	return inTx(ctx, func(txCtx context.Context) error {
		rows, err := s.repo.GetAll(txCtx)
		if err != nil {
			return err
		}
		tree := department.NewTree(rows)

		if _, ok := tree.Get(id); !ok {
			return gerrors.Wrapf(department.ErrNotFound, "id %d", id)
		}
		if newParentID != nil {
			if _, ok := tree.Get(*newParentID); !ok {
				return gerrors.Wrapf(department.ErrMissingParent, "parent %d", *newParentID)
			}
			subtree, err := tree.DescendantIDs(id)
			if err != nil {
				return err
			}
			for _, sid := range subtree {
				if sid == *newParentID {
					return gerrors.Wrapf(department.ErrCycleDetected, "cannot move %d under its own subtree", id)
				}
			}
		}

		if err := s.repo.UpdateParent(txCtx, id, newParentID); err != nil {
			return err
		}

		// Recompute the moved subtree against the updated link set.
		for i := range rows {
			if rows[i].ID == id {
				rows[i].ParentID = newParentID
			}
		}
		moved := department.NewTree(rows)
		subtree, err := moved.DescendantIDs(id)
		if err != nil {
			return err
		}
		for _, sid := range subtree {
			path, err := moved.ComputePath(sid)
			if err != nil {
				return err
			}
			if err := s.repo.UpdatePath(txCtx, sid, path); err != nil {
				return err
			}
		}
		return nil
	})
}
