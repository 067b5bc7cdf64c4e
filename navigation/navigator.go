package navigation

import (
	"fmt"
	"slices"

	"github.com/poiesic/htsfinder/core"
	"github.com/poiesic/htsfinder/tree"
)

// RootDescription is the description of the synthetic root view.
const RootDescription = "root"

// Navigator is the focus-path state machine over one tree.
type Navigator struct {
	tree *tree.Tree
	root *core.TreeNode
	path []*core.TreeNode
}

// New creates a navigator positioned at the synthetic root.
func New(t *tree.Tree) *Navigator {
	if t == nil {
		t = tree.New(nil)
	}
	children := t.Roots()
	if children == nil {
		children = []*core.TreeNode{}
	}
	return &Navigator{
		tree: t,
		root: &core.TreeNode{Description: RootDescription, Children: children},
	}
}

// FocusedView returns the node whose children are on display: the last node
// of the focus path, or the synthetic root when the path is empty.
func (n *Navigator) FocusedView() *core.TreeNode {
	if len(n.path) == 0 {
		return n.root
	}
	return n.path[len(n.path)-1]
}

// Children returns the children of the focused view.
func (n *Navigator) Children() []*core.TreeNode {
	return n.FocusedView().Children
}

// Focus pushes node onto the path. Leaves are ignored and Focus reports false.
func (n *Navigator) Focus(node *core.TreeNode) bool {
	if node == nil || !node.HasChildren() {
		return false
	}
	n.path = append(n.path, node)
	return true
}

// FocusChild focuses the i-th child of the focused view.
func (n *Navigator) FocusChild(i int) bool {
	children := n.Children()
	if i < 0 || i >= len(children) {
		return false
	}
	return n.Focus(children[i])
}

// FocusCode focuses the child of the focused view carrying code.
func (n *Navigator) FocusCode(code string) bool {
	if code == "" {
		return false
	}
	for _, child := range n.Children() {
		if child.Code == code {
			return n.Focus(child)
		}
	}
	return false
}

// Back pops the last node of the path. It reports false at the root.
func (n *Navigator) Back() bool {
	if len(n.path) == 0 {
		return false
	}
	n.path[len(n.path)-1] = nil
	n.path = n.path[:len(n.path)-1]
	return true
}

// SelectResult focuses the parent of the first node carrying code, so the
// node shows among its siblings. A top-level node selects the root view.
// When code is not in the tree the path is left unchanged and the error
// wraps core.ErrNotFound.
func (n *Navigator) SelectResult(code string) error {
	found, ok := n.tree.PathTo(code)
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrNotFound, code)
	}
	n.path = found[:len(found)-1]
	return nil
}

// Reset returns to the root view.
func (n *Navigator) Reset() {
	n.path = nil
}

// Path returns a copy of the focus path, nil at the root.
func (n *Navigator) Path() []*core.TreeNode {
	if len(n.path) == 0 {
		return nil
	}
	return slices.Clone(n.path)
}

// Depth returns the length of the focus path.
func (n *Navigator) Depth() int {
	return len(n.path)
}

// Describe renders the focus path one line per node, indented by depth.
// It is empty at the root.
func (n *Navigator) Describe() string {
	return tree.RenderPath(n.path)
}
