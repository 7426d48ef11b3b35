package department

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(v uint) *uint { return &v }

func testRows() []Department {
	return []Department{
		{ID: 1, Name: "HQ"},
		{ID: 2, Name: "Region", ParentID: ptr(1)},
		{ID: 3, Name: "Branch", ParentID: ptr(2)},
		{ID: 4, Name: "Depot", ParentID: ptr(1)},
	}
}

func TestComputePath(t *testing.T) {
	tree := NewTree(testRows())

	path, err := tree.ComputePath(1)
	require.NoError(t, err)
	require.Equal(t, "/1/", path)

	path, err = tree.ComputePath(3)
	require.NoError(t, err)
	require.Equal(t, "/1/2/3/", path)
}

func TestComputePathInvariant(t *testing.T) {
	tree := NewTree(testRows())
	for _, row := range testRows() {
		path, err := tree.ComputePath(row.ID)
		require.NoError(t, err)
		if row.IsRoot() {
			require.Equal(t, JoinPath("", row.ID), path)
			continue
		}
		parentPath, err := tree.ComputePath(*row.ParentID)
		require.NoError(t, err)
		require.Equal(t, JoinPath(parentPath, row.ID), path)
	}
}

func TestComputePathCycle(t *testing.T) {
	tree := NewTree([]Department{
		{ID: 1, ParentID: ptr(2)},
		{ID: 2, ParentID: ptr(1)},
	})
	_, err := tree.ComputePath(1)
	require.ErrorIs(t, err, ErrCycleDetected)
}

func TestComputePathMissingParent(t *testing.T) {
	tree := NewTree([]Department{
		{ID: 1, ParentID: ptr(99)},
	})
	_, err := tree.ComputePath(1)
	require.ErrorIs(t, err, ErrMissingParent)
}

func TestOrderedByDepthRootsFirst(t *testing.T) {
	tree := NewTree(testRows())
	order, err := tree.OrderedByDepth()
	require.NoError(t, err)
	require.Equal(t, []uint{1, 2, 4, 3}, order)
}

func TestOrderedByDepthAbortsOnCycle(t *testing.T) {
	tree := NewTree([]Department{
		{ID: 1},
		{ID: 2, ParentID: ptr(3)},
		{ID: 3, ParentID: ptr(2)},
	})
	_, err := tree.OrderedByDepth()
	require.ErrorIs(t, err, ErrCycleDetected)
}

func TestDescendantIDsIncludesSelfAndSubtree(t *testing.T) {
	tree := NewTree(testRows())

	ids, err := tree.DescendantIDs(1)
	require.NoError(t, err)
	require.Equal(t, []uint{1, 2, 3, 4}, ids)

	ids, err = tree.DescendantIDs(2)
	require.NoError(t, err)
	require.Equal(t, []uint{2, 3}, ids)
}

func TestDecodeAncestors(t *testing.T) {
	require.Nil(t, DecodeAncestors("/1/"))
	require.Equal(t, []uint{1, 2}, DecodeAncestors("/1/2/3/"))
}
