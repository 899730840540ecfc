// File: pkg/amalgamate/tree.go
package amalgamate

import (
	"fmt"
	"strings"
)

// RenderTree draws the include hierarchy with box-drawing connectors, one
// directive per line, in source order.
func RenderTree(root *Node) string {
	if root == nil {
		return ""
	}
	var treeBuilder strings.Builder
	treeBuilder.WriteString(root.Path + "\n")
	renderChildren(&treeBuilder, root.Children, "")
	return treeBuilder.String()
}

func renderChildren(b *strings.Builder, children []*Node, prefix string) {
	for i, child := range children {
		connector := "├── "
		extension := "│   "
		if i == len(children)-1 {
			connector = "└── "
			extension = "    "
		}
		fmt.Fprintf(b, "%s%s%s\n", prefix, connector, label(child))
		if len(child.Children) > 0 {
			renderChildren(b, child.Children, prefix+extension)
		}
	}
}

func label(n *Node) string {
	switch n.Kind {
	case NodeUnresolved:
		return n.Target + " (unresolved)"
	case NodeExcluded:
		return n.Target + " (excluded)"
	case NodeSkipped:
		return n.Target + " (already included)"
	default:
		return n.Target
	}
}
