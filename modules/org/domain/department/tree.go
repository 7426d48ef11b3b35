package department

import (
	"sort"

	gerrors "github.com/go-faster/errors"
)

// Tree is an in-memory arena of department nodes indexed by id. It exists so
// path computation is an explicit topological pass over a consistent
// snapshot instead of per-node recursive queries.
type Tree struct {
	nodes map[uint]Department
}

// NewTree builds an arena from a snapshot of department rows.
func NewTree(rows []Department) *Tree {
	nodes := make(map[uint]Department, len(rows))
	for _, row := range rows {
		nodes[row.ID] = row
	}
	return &Tree{nodes: nodes}
}

// Get returns the node for id.
func (t *Tree) Get(id uint) (Department, bool) {
	node, ok := t.nodes[id]
	return node, ok
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// ComputePath derives the materialized path for id by following parent
// links. It fails with ErrCycleDetected when the walk revisits a node and
// ErrMissingParent when a parent id is absent from the snapshot.
func (t *Tree) ComputePath(id uint) (string, error) {
	node, ok := t.nodes[id]
	if !ok {
		return "", gerrors.Wrapf(ErrNotFound, "department %d", id)
	}

	ids := []uint{node.ID}
	visited := map[uint]struct{}{node.ID: {}}
	for !node.IsRoot() {
		parentID := *node.ParentID
		if _, seen := visited[parentID]; seen {
			return "", gerrors.Wrapf(ErrCycleDetected, "department %d", id)
		}
		parent, ok := t.nodes[parentID]
		if !ok {
			return "", gerrors.Wrapf(ErrMissingParent, "department %d references parent %d", node.ID, parentID)
		}
		visited[parentID] = struct{}{}
		ids = append(ids, parent.ID)
		node = parent
	}

	path := ""
	for i := len(ids) - 1; i >= 0; i-- {
		path = JoinPath(path, ids[i])
	}
	return path, nil
}

// Depth returns the number of ancestors of id, with the same failure modes
// as ComputePath.
func (t *Tree) Depth(id uint) (int, error) {
	path, err := t.ComputePath(id)
	if err != nil {
		return 0, err
	}
	return len(DecodeAncestors(path)), nil
}

// OrderedByDepth returns all ids topologically ordered, roots first, so a
// node's path is never computed before its parent's. Any cycle or dangling
// parent fails the whole ordering.
func (t *Tree) OrderedByDepth() ([]uint, error) {
	type entry struct {
		id    uint
		depth int
	}
	entries := make([]entry, 0, len(t.nodes))
	for id := range t.nodes {
		depth, err := t.Depth(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{id: id, depth: depth})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].depth != entries[j].depth {
			return entries[i].depth < entries[j].depth
		}
		return entries[i].id < entries[j].id
	})
	out := make([]uint, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out, nil
}

// DescendantIDs returns every node whose computed path has the computed path
// of id as a prefix, including id itself. Used by the rebuild pass; serving
// reads use the repository's indexed prefix query instead.
func (t *Tree) DescendantIDs(id uint) ([]uint, error) {
	rootPath, err := t.ComputePath(id)
	if err != nil {
		return nil, err
	}
	out := make([]uint, 0, 8)
	for nodeID := range t.nodes {
		path, err := t.ComputePath(nodeID)
		if err != nil {
			return nil, err
		}
		if len(path) >= len(rootPath) && path[:len(rootPath)] == rootPath {
			out = append(out, nodeID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
