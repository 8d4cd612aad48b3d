package bbmod

import (
	"fmt"

	pmath "github.com/Faultbox/bbmod/pkg/math"
)

// NodeLayout selects how exported meshes are arranged in the hierarchy.
type NodeLayout uint8

const (
	// NodeLayoutSingleRoot puts every mesh under one identity root node.
	NodeLayoutSingleRoot NodeLayout = iota
	// NodeLayoutPerObject gives every mesh object its own child of the
	// root, carrying the object's world transform.
	NodeLayoutPerObject
)

var nodeLayoutNames = map[NodeLayout]string{
	NodeLayoutSingleRoot: "single-root",
	NodeLayoutPerObject:  "per-object",
}

// ParseNodeLayout accepts "single-root" or "per-object".
func ParseNodeLayout(s string) (NodeLayout, error) {
	for layout, name := range nodeLayoutNames {
		if name == s {
			return layout, nil
		}
	}
	return 0, fmt.Errorf("unknown node layout %q", s)
}

// String returns the layout name.
func (l NodeLayout) String() string {
	if name, ok := nodeLayoutNames[l]; ok {
		return name
	}
	return fmt.Sprintf("NodeLayout(%d)", l)
}

// BuildNodes creates the hierarchy for the exported mesh objects. Mesh i of
// the document is meshObjects[i]. The root is always node 0.
func BuildNodes(meshObjects []Object, layout NodeLayout) []Node {
	root := Node{
		Name:      RootNodeName,
		Index:     0,
		Transform: pmath.Identity(),
	}

	if layout != NodeLayoutPerObject {
		root.Meshes = make([]uint32, len(meshObjects))
		for i := range meshObjects {
			root.Meshes[i] = uint32(i)
		}
		return []Node{root}
	}

	nodes := make([]Node, 1, len(meshObjects)+1)
	used := map[string]bool{RootNodeName: true}
	for i, obj := range meshObjects {
		index := uint32(i + 1)
		root.Children = append(root.Children, index)
		nodes = append(nodes, Node{
			Name:      uniqueName(obj.Name, i, used),
			Index:     index,
			Transform: obj.World,
			Meshes:    []uint32{uint32(i)},
		})
	}
	nodes[0] = root
	return nodes
}

// uniqueName keeps node names distinguishable: empty names get a
// positional name, repeats get a numeric suffix.
func uniqueName(name string, i int, used map[string]bool) string {
	if name == "" {
		name = fmt.Sprintf("Object%d", i)
	}
	candidate := name
	for n := 1; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s.%03d", name, n)
	}
	used[candidate] = true
	return candidate
}

// EncodeNodes serializes the hierarchy depth-first from node 0. Every node
// must sit at the position given by its Index, be reachable from the root
// exactly once, and only reference meshes below meshCount.
func EncodeNodes(nodes []Node, meshCount int, r Revision) ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedRevision, uint8(r))
	}
	order, err := depthFirst(nodes, meshCount)
	if err != nil {
		return nil, err
	}

	e := newEncoder(64 * len(nodes))
	e.uint32(uint32(len(nodes)))
	for _, i := range order {
		node := &nodes[i]
		e.cstring(node.Name)
		e.uint32(node.Index)
		e.bool(node.IsBone)
		e.transform(node.Transform, r)
		e.uint32s(node.Meshes)
		e.uint32s(node.Children)
	}
	return e.bytes(), nil
}

// depthFirst validates the tree and returns node positions in pre-order.
func depthFirst(nodes []Node, meshCount int) ([]uint32, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: no root node", ErrInvalidNodeTree)
	}

	for i := range nodes {
		node := &nodes[i]
		if int(node.Index) != i {
			return nil, fmt.Errorf("%w: node at position %d has index %d", ErrInvalidNodeTree, i, node.Index)
		}
		if err := checkName(node.Name); err != nil {
			return nil, fmt.Errorf("%w: node %d name %q", err, i, node.Name)
		}
		for _, m := range node.Meshes {
			if int(m) >= meshCount {
				return nil, fmt.Errorf("%w: node %q references mesh %d of %d", ErrInvalidNodeTree, node.Name, m, meshCount)
			}
		}
		for _, c := range node.Children {
			if int(c) >= len(nodes) {
				return nil, fmt.Errorf("%w: node %q references child %d of %d", ErrInvalidNodeTree, node.Name, c, len(nodes))
			}
		}
	}

	visited := make([]bool, len(nodes))
	order := make([]uint32, 0, len(nodes))
	stack := []uint32{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			return nil, fmt.Errorf("%w: node %q reached twice", ErrInvalidNodeTree, nodes[i].Name)
		}
		visited[i] = true
		order = append(order, i)

		children := nodes[i].Children
		for c := len(children) - 1; c >= 0; c-- {
			stack = append(stack, children[c])
		}
	}

	if len(order) != len(nodes) {
		for i, seen := range visited {
			if !seen {
				return nil, fmt.Errorf("%w: node %q is not reachable from the root", ErrInvalidNodeTree, nodes[i].Name)
			}
		}
	}
	return order, nil
}
