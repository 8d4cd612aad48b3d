package bbmod

import (
	"errors"
	"testing"

	pmath "github.com/Faultbox/bbmod/pkg/math"
)

func TestBuildNodes_SingleRoot(t *testing.T) {
	objects := []Object{meshObject("a", triangleMesh()), meshObject("b", quadMesh())}
	nodes := BuildNodes(objects, NodeLayoutSingleRoot)

	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	root := nodes[0]
	if root.Name != RootNodeName || root.Index != 0 || root.IsBone {
		t.Errorf("unexpected root: %+v", root)
	}
	if root.Transform != pmath.Identity() {
		t.Errorf("root transform = %v, want identity", root.Transform)
	}
	if len(root.Meshes) != 2 || root.Meshes[0] != 0 || root.Meshes[1] != 1 {
		t.Errorf("root meshes = %v, want [0 1]", root.Meshes)
	}
	if len(root.Children) != 0 {
		t.Errorf("root children = %v, want none", root.Children)
	}
}

func TestBuildNodes_PerObject(t *testing.T) {
	objects := []Object{
		meshObject("Cube", triangleMesh()),
		meshObject("Cube", triangleMesh()),
		meshObject("", triangleMesh()),
		meshObject(RootNodeName, triangleMesh()),
	}
	objects[1].World = pmath.Translate(1, 2, 3)

	nodes := BuildNodes(objects, NodeLayoutPerObject)
	if len(nodes) != 5 {
		t.Fatalf("expected 5 nodes, got %d", len(nodes))
	}

	wantNames := []string{RootNodeName, "Cube", "Cube.001", "Object2", "RootNode.001"}
	for i, node := range nodes {
		if node.Name != wantNames[i] {
			t.Errorf("node %d name = %q, want %q", i, node.Name, wantNames[i])
		}
		if node.Index != uint32(i) {
			t.Errorf("node %d index = %d", i, node.Index)
		}
	}
	if got := nodes[0].Children; len(got) != 4 || got[0] != 1 || got[3] != 4 {
		t.Errorf("root children = %v", got)
	}
	if len(nodes[0].Meshes) != 0 {
		t.Errorf("root meshes = %v, want none", nodes[0].Meshes)
	}
	if nodes[2].Transform != pmath.Translate(1, 2, 3) {
		t.Errorf("node 2 transform = %v", nodes[2].Transform)
	}

	// Every mesh is referenced exactly once.
	seen := make(map[uint32]int)
	for _, node := range nodes {
		for _, m := range node.Meshes {
			seen[m]++
		}
	}
	for i := range objects {
		if seen[uint32(i)] != 1 {
			t.Errorf("mesh %d referenced %d times", i, seen[uint32(i)])
		}
	}
}

func TestEncodeNodes_RootLayout(t *testing.T) {
	tests := []struct {
		rev      Revision
		wantSize int
	}{
		{Revision2, 4 + 9 + 4 + 1 + 64 + 4 + 4 + 4},
		{Revision3, 4 + 9 + 4 + 1 + 32 + 4 + 4 + 4},
	}

	for _, tt := range tests {
		t.Run(tt.rev.String(), func(t *testing.T) {
			nodes := BuildNodes([]Object{meshObject("a", triangleMesh())}, NodeLayoutSingleRoot)
			b, err := EncodeNodes(nodes, 1, tt.rev)
			if err != nil {
				t.Fatalf("EncodeNodes: %v", err)
			}
			if len(b) != tt.wantSize {
				t.Errorf("len = %d, want %d", len(b), tt.wantSize)
			}

			r := newReader(t, b)
			if got := r.u32(); got != 1 {
				t.Errorf("node count = %d", got)
			}
			if got := r.cstring(); got != RootNodeName {
				t.Errorf("name = %q", got)
			}
			if got := r.u32(); got != 0 {
				t.Errorf("index = %d", got)
			}
			if got := r.u8(); got != 0 {
				t.Errorf("isBone = %d", got)
			}
			transform := r.f32s(tt.rev.TransformSize() / 4)
			if tt.rev == Revision3 {
				// Identity dual quaternion
				if transform[3] != 1 || transform[0] != 0 || transform[7] != 0 {
					t.Errorf("transform = %v", transform)
				}
			} else if transform[0] != 1 || transform[5] != 1 || transform[1] != 0 {
				t.Errorf("transform = %v", transform)
			}
			if got := r.u32(); got != 1 {
				t.Errorf("mesh count = %d", got)
			}
			if got := r.u32(); got != 0 {
				t.Errorf("mesh index = %d", got)
			}
			if got := r.u32(); got != 0 {
				t.Errorf("child count = %d", got)
			}
			r.done()
		})
	}
}

func TestEncodeNodes_MatrixIsRowMajor(t *testing.T) {
	nodes := []Node{{Name: "n", Transform: pmath.Translate(4, 5, 6)}}
	b, err := EncodeNodes(nodes, 0, Revision2)
	if err != nil {
		t.Fatalf("EncodeNodes: %v", err)
	}

	r := newReader(t, b)
	r.u32()
	r.cstring()
	r.take(5)
	m := r.f32s(16)
	if m[3] != 4 || m[7] != 5 || m[11] != 6 || m[15] != 1 {
		t.Errorf("row-major matrix = %v", m)
	}
}

func TestEncodeNodes_DepthFirstOrder(t *testing.T) {
	// 0 -> [2, 1], 2 -> [3]
	nodes := []Node{
		{Name: "root", Index: 0, Children: []uint32{2, 1}},
		{Name: "b", Index: 1},
		{Name: "a", Index: 2, Children: []uint32{3}},
		{Name: "a1", Index: 3, Meshes: []uint32{0}},
	}
	for i := range nodes {
		nodes[i].Transform = pmath.Identity()
	}

	b, err := EncodeNodes(nodes, 1, Revision3)
	if err != nil {
		t.Fatalf("EncodeNodes: %v", err)
	}

	r := newReader(t, b)
	if got := r.u32(); got != 4 {
		t.Fatalf("node count = %d", got)
	}
	want := []string{"root", "a", "a1", "b"}
	for _, name := range want {
		got := r.cstring()
		if got != name {
			t.Errorf("got node %q, want %q", got, name)
		}
		r.u32()
		r.u8()
		r.f32s(8)
		for n := r.u32(); n > 0; n-- {
			r.u32()
		}
		for n := r.u32(); n > 0; n-- {
			r.u32()
		}
	}
	r.done()
}

func TestEncodeNodes_ZeroMeshes(t *testing.T) {
	nodes := BuildNodes(nil, NodeLayoutSingleRoot)
	b, err := EncodeNodes(nodes, 0, Revision3)
	if err != nil {
		t.Fatalf("EncodeNodes: %v", err)
	}

	r := newReader(t, b)
	r.u32()
	r.cstring()
	r.take(4 + 1 + 32)
	if got := r.u32(); got != 0 {
		t.Errorf("mesh count = %d, want 0", got)
	}
	if got := r.u32(); got != 0 {
		t.Errorf("child count = %d, want 0", got)
	}
	r.done()
}

func TestEncodeNodes_Errors(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []Node
		meshCount int
		wantErr   error
	}{
		{"no nodes", nil, 0, ErrInvalidNodeTree},
		{"index mismatch", []Node{{Name: "r", Index: 3}}, 0, ErrInvalidNodeTree},
		{"dangling mesh", []Node{{Name: "r", Meshes: []uint32{1}}}, 1, ErrInvalidNodeTree},
		{"dangling child", []Node{{Name: "r", Children: []uint32{1}}}, 0, ErrInvalidNodeTree},
		{"cycle", []Node{{Name: "r", Children: []uint32{1}}, {Name: "c", Index: 1, Children: []uint32{0}}}, 0, ErrInvalidNodeTree},
		{"shared child", []Node{{Name: "r", Children: []uint32{1, 1}}, {Name: "c", Index: 1}}, 0, ErrInvalidNodeTree},
		{"unreachable", []Node{{Name: "r"}, {Name: "lost", Index: 1}}, 0, ErrInvalidNodeTree},
		{"empty name", []Node{{Name: ""}}, 0, ErrInvalidName},
		{"nul in name", []Node{{Name: "a\x00b"}}, 0, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeNodes(tt.nodes, tt.meshCount, Revision3)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeNodes_BadRevision(t *testing.T) {
	_, err := EncodeNodes([]Node{{Name: "r"}}, 0, Revision(9))
	if !errors.Is(err, ErrUnsupportedRevision) {
		t.Errorf("got error %v, want ErrUnsupportedRevision", err)
	}
}

func TestParseNodeLayout(t *testing.T) {
	for _, layout := range []NodeLayout{NodeLayoutSingleRoot, NodeLayoutPerObject} {
		got, err := ParseNodeLayout(layout.String())
		if err != nil || got != layout {
			t.Errorf("ParseNodeLayout(%q) = %v, %v", layout.String(), got, err)
		}
	}
	if _, err := ParseNodeLayout("flat"); err == nil {
		t.Error("expected error for unknown layout")
	}
}
