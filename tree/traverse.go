package tree

import (
	"iter"
	"strings"

	"github.com/poiesic/htsfinder/core"
)

// indentUnit is the per-depth indent marker used when rendering paths.
const indentUnit = "  "

// Flatten returns a pre-order sequence over every node of the forest.
// The sequence is restartable and does not modify the tree.
func Flatten(roots []*core.TreeNode) iter.Seq[*core.TreeNode] {
	return func(yield func(*core.TreeNode) bool) {
		stack := make([]*core.TreeNode, 0, len(roots))
		for i := len(roots) - 1; i >= 0; i-- {
			stack = append(stack, roots[i])
		}

		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if node == nil {
				continue
			}
			if !yield(node) {
				return
			}
			for i := len(node.Children) - 1; i >= 0; i-- {
				stack = append(stack, node.Children[i])
			}
		}
	}
}

type frame struct {
	node  *core.TreeNode
	depth int
}

// walkPaths visits every node in pre-order together with its root-to-node
// path. The path slice is reused between calls; fn must copy it to keep it.
func walkPaths(roots []*core.TreeNode, fn func(path []*core.TreeNode) bool) {
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i]})
	}

	path := make([]*core.TreeNode, 0, 16)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			continue
		}

		path = append(path[:f.depth], f.node)
		if !fn(path) {
			return
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], depth: f.depth + 1})
		}
	}
}

// FindPathToCode returns the root-to-node path of the first node, in
// pre-order, whose code equals code. The boolean is false when no node
// carries that code; an empty code never matches.
func FindPathToCode(roots []*core.TreeNode, code string) ([]*core.TreeNode, bool) {
	if code == "" {
		return nil, false
	}

	var found []*core.TreeNode
	walkPaths(roots, func(path []*core.TreeNode) bool {
		if path[len(path)-1].Code == code {
			found = append([]*core.TreeNode(nil), path...)
			return false
		}
		return true
	})
	return found, found != nil
}

// FullDescription renders the path of node's code. The boolean is false when
// the code has no path in the tree.
func FullDescription(roots []*core.TreeNode, node *core.TreeNode) (string, bool) {
	if node == nil {
		return "", false
	}
	path, ok := FindPathToCode(roots, node.Code)
	if !ok {
		return "", false
	}
	return RenderPath(path), true
}

// RenderPath concatenates the descriptions along path, one line per node,
// each indented proportionally to its depth. The rendering of a path is a
// prefix of the rendering of any longer path that extends it.
func RenderPath(path []*core.TreeNode) string {
	var b strings.Builder
	for depth, n := range path {
		if depth > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(renderLine(n, depth))
	}
	return b.String()
}

func renderLine(n *core.TreeNode, depth int) string {
	line := strings.Repeat(indentUnit, depth)
	if n.Code != "" {
		line += n.Code + " "
	}
	return line + n.Description
}
