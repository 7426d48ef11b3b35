package services

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/cleanops/erp-sdk/modules/core/domain/entities/policy"
	"github.com/cleanops/erp-sdk/modules/org/domain/department"
	"github.com/cleanops/erp-sdk/pkg/composables"
	"github.com/cleanops/erp-sdk/pkg/eventbus"
)

// inTx is a seam for tests running against in-memory repositories.
var inTx = composables.InTx

// HierarchyService owns tree queries over the department table. Subtree
// lookups go through the materialized path; ancestor decoding is pure string
// work once a path is known.
type HierarchyService struct {
	repo      department.Repository
	publisher eventbus.EventBus
	logger    *logrus.Entry
}

func NewHierarchyService(repo department.Repository, publisher eventbus.EventBus, logger *logrus.Logger) *HierarchyService {
	return &HierarchyService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithField("component", "org.hierarchy"),
	}
}

func (s *HierarchyService) snapshot(ctx context.Context) (*department.Tree, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return department.NewTree(rows), nil
}

// ComputePath derives the root-to-node path for a department from the
// current snapshot of parent links.
func (s *HierarchyService) ComputePath(ctx context.Context, id uint) (string, error) {
	tree, err := s.snapshot(ctx)
	if err != nil {
		return "", err
	}
	return tree.ComputePath(id)
}

// validatedPath returns the freshly computed path for id. A stored path that
// disagrees with recomputation is a data-integrity warning; scope decisions
// never trust the stale value.
func (s *HierarchyService) validatedPath(ctx context.Context, tree *department.Tree, id uint) (string, bool, error) {
	node, ok := tree.Get(id)
	if !ok {
		return "", false, gerrors.Wrapf(department.ErrNotFound, "id %d", id)
	}
	fresh, err := tree.ComputePath(id)
	if err != nil {
		return "", false, err
	}
	if node.Path != fresh {
		s.logger.WithContext(ctx).WithFields(logrus.Fields{
			"department_id": id,
			"stored_path":   node.Path,
			"computed_path": fresh,
		}).Warn("department path mismatch, run a path rebuild")
		return fresh, false, nil
	}
	return fresh, true, nil
}

// DescendantsOf returns the ids of the subtree rooted at id, including id
// itself. The usual read is one indexed prefix query over stored paths; when
// the stored path for id is stale the whole answer is derived from the
// snapshot instead, since sibling paths cannot be trusted either.
func (s *HierarchyService) DescendantsOf(ctx context.Context, id uint) ([]uint, error) {
	tree, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	path, storedOK, err := s.validatedPath(ctx, tree, id)
	if err != nil {
		return nil, err
	}
	if !storedOK {
		return tree.DescendantIDs(id)
	}
	return s.repo.DescendantIDsByPathPrefix(ctx, path)
}

// AncestorsOf returns the ordered ancestor ids of id, root first, immediate
// parent last.
func (s *HierarchyService) AncestorsOf(ctx context.Context, id uint) ([]uint, error) {
	tree, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	path, _, err := s.validatedPath(ctx, tree, id)
	if err != nil {
		return nil, err
	}
	return department.DecodeAncestors(path), nil
}

// SiblingIDs returns the departments sharing id's immediate parent,
// including id itself. Roots are siblings of the other roots.
func (s *HierarchyService) SiblingIDs(ctx context.Context, id uint) ([]uint, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	tree := department.NewTree(rows)
	node, ok := tree.Get(id)
	if !ok {
		return nil, gerrors.Wrapf(department.ErrNotFound, "id %d", id)
	}

	out := make([]uint, 0, 4)
	for _, row := range rows {
		switch {
		case node.IsRoot() && row.IsRoot():
			out = append(out, row.ID)
		case !node.IsRoot() && !row.IsRoot() && *row.ParentID == *node.ParentID:
			out = append(out, row.ID)
		}
	}
	return out, nil
}

// ManagedDepartmentIDs returns the explicit manager grant set for an
// employee. An empty set is a legal answer.
func (s *HierarchyService) ManagedDepartmentIDs(ctx context.Context, employeeID uint) ([]uint, error) {
	return s.repo.ManagedDepartmentIDs(ctx, employeeID)
}

// ManagedSubtreeIDs expands every managed department into its full subtree
// and de-duplicates the union.
func (s *HierarchyService) ManagedSubtreeIDs(ctx context.Context, employeeID uint) ([]uint, error) {
	roots, err := s.repo.ManagedDepartmentIDs(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, nil
	}

	seen := make(map[uint]struct{}, len(roots)*4)
	out := make([]uint, 0, len(roots)*4)
	for _, root := range roots {
		ids, err := s.DescendantsOf(ctx, root)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}

// AssignManager declares an employee a manager of a department and notifies
// scope caches.
func (s *HierarchyService) AssignManager(ctx context.Context, departmentID, employeeID uint) error {
	if err := s.repo.AssignManager(ctx, departmentID, employeeID); err != nil {
		return err
	}
	s.publisher.Publish(policy.DepartmentManagerChangedEvent{
		DepartmentID: departmentID,
		EmployeeID:   employeeID,
	})
	return nil
}

// RemoveManager revokes a manager declaration and notifies scope caches.
func (s *HierarchyService) RemoveManager(ctx context.Context, departmentID, employeeID uint) error {
	if err := s.repo.RemoveManager(ctx, departmentID, employeeID); err != nil {
		return err
	}
	s.publisher.Publish(policy.DepartmentManagerChangedEvent{
		DepartmentID: departmentID,
		EmployeeID:   employeeID,
	})
	return nil
}
