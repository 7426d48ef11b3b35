package department

import (
	"strconv"
	"strings"
)

// Department is one node of the organizational tree. Path is a derived
// field: the materialized root-to-node ancestry, always equal to
// parent.Path + ID + "/" (or "/" + ID + "/" for roots). It is recomputed in
// the same transaction as any parent change, never lazily.
type Department struct {
	ID       uint
	Name     string
	ParentID *uint
	Path     string
}

// IsRoot reports whether the department has no parent.
func (d Department) IsRoot() bool {
	return d.ParentID == nil || *d.ParentID == 0
}

const pathSeparator = "/"

// JoinPath appends a node id to its parent's path. An empty parent path
// yields a root path.
func JoinPath(parentPath string, id uint) string {
	if parentPath == "" {
		parentPath = pathSeparator
	}
	return parentPath + strconv.FormatUint(uint64(id), 10) + pathSeparator
}

// DecodeAncestors decodes a materialized path into the ordered ancestor ids
// from root to immediate parent, excluding the node itself. Malformed
// segments are skipped; the path owner is responsible for integrity.
func DecodeAncestors(path string) []uint {
	segments := strings.Split(strings.Trim(path, pathSeparator), pathSeparator)
	if len(segments) <= 1 {
		return nil
	}
	out := make([]uint, 0, len(segments)-1)
	for _, seg := range segments[:len(segments)-1] {
		id, err := strconv.ParseUint(seg, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, uint(id))
	}
	return out
}
