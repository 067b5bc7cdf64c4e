package tree

import (
	"strings"

	"github.com/poiesic/htsfinder/core"
)

// Entry is a searchable node: one that has both a code and a description.
type Entry struct {
	Node            *core.TreeNode
	FullDescription string
	folded          string
}

// Contains reports whether token occurs in the entry's full description,
// ignoring case. token must already be lower-cased.
func (e *Entry) Contains(token string) bool {
	return strings.Contains(e.folded, token)
}

// Tree is a read-only classification forest with its searchable entries
// precomputed. A Tree is safe for concurrent use.
type Tree struct {
	roots   []*core.TreeNode
	entries []Entry
	size    int
}

// New builds a Tree over roots. Searchable entries are collected in pre-order
// and each one gets the full description of the first node carrying its code,
// matching FindPathToCode for duplicated codes.
func New(roots []*core.TreeNode) *Tree {
	t := &Tree{roots: roots}

	firstPath := make(map[string]string)
	walkPaths(roots, func(path []*core.TreeNode) bool {
		t.size++
		node := path[len(path)-1]
		if node.Code == "" {
			return true
		}
		full, seen := firstPath[node.Code]
		if !seen {
			full = RenderPath(path)
			firstPath[node.Code] = full
		}
		if node.Description != "" {
			t.entries = append(t.entries, Entry{
				Node:            node,
				FullDescription: full,
				folded:          strings.ToLower(full),
			})
		}
		return true
	})

	return t
}

// Roots returns the top-level nodes.
func (t *Tree) Roots() []*core.TreeNode {
	return t.roots
}

// Entries returns the searchable entries in pre-order.
// The returned slice must not be modified.
func (t *Tree) Entries() []Entry {
	return t.entries
}

// Len returns the total number of nodes, groups included.
func (t *Tree) Len() int {
	return t.size
}

// IsEmpty reports whether the tree has no nodes.
func (t *Tree) IsEmpty() bool {
	return t.size == 0
}

// PathTo returns the root-to-node path of the first node carrying code.
func (t *Tree) PathTo(code string) ([]*core.TreeNode, bool) {
	return FindPathToCode(t.roots, code)
}

// FullDescriptionOf renders the path of code.
func (t *Tree) FullDescriptionOf(code string) (string, bool) {
	path, ok := t.PathTo(code)
	if !ok {
		return "", false
	}
	return RenderPath(path), true
}
