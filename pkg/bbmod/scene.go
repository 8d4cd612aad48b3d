package bbmod

import (
	"fmt"

	pmath "github.com/Faultbox/bbmod/pkg/math"
)

// ObjectKind tags what a scene object is. Only KindMesh objects are exported.
type ObjectKind uint8

const (
	KindOther  ObjectKind = iota // Anything the host has no better tag for
	KindMesh                     // Carries MeshData
	KindEmpty                    // Transform-only object
	KindCamera                   // Camera
	KindLight                    // Light
)

// String returns a human-readable kind name.
func (k ObjectKind) String() string {
	switch k {
	case KindOther:
		return "Other"
	case KindMesh:
		return "Mesh"
	case KindEmpty:
		return "Empty"
	case KindCamera:
		return "Camera"
	case KindLight:
		return "Light"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Scene is a read-only snapshot of the host scene. The encoder never
// modifies it.
type Scene struct {
	Objects   []Object   // Selection order
	Materials []Material // Declared materials, may be empty
	Bones     []Bone     // Skeleton, empty until skinning is exported
}

// Object is one entry of the scene selection.
type Object struct {
	Name  string
	Kind  ObjectKind
	World pmath.Mat4 // World transform, column-major
	Mesh  *MeshData  // Set for KindMesh
}

// MeshObjects returns the mesh objects in selection order. The position of
// an object in the result is its mesh index in the document.
func (s *Scene) MeshObjects() []Object {
	if s == nil {
		return nil
	}
	var out []Object
	for _, obj := range s.Objects {
		if obj.Kind == KindMesh {
			out = append(out, obj)
		}
	}
	return out
}

// Polygon is a range of loops. Exported meshes are triangulated, so
// LoopTotal must be 3.
type Polygon struct {
	LoopStart uint32
	LoopTotal uint32
}

// Loop is one polygon corner. Normal and tangent are per corner so hard
// edges survive.
type Loop struct {
	Vertex        uint32 // Index into MeshData.Positions
	Normal        pmath.Vec3
	Tangent       pmath.Vec3
	BitangentSign float32
}

// MeshData is a triangulated polygon mesh in object-local space.
type MeshData struct {
	Positions []pmath.Vec3
	Polygons  []Polygon
	Loops     []Loop

	UVs    []pmath.Vec2 // Per loop, nil when no UV layer is bound
	Colors [][4]uint8   // Per loop, nil when no color layer is bound

	Material string // Bound material name, empty for the default material
}

// VertexCount returns the number of vertex records the mesh encodes to.
func (m *MeshData) VertexCount() int {
	return len(m.Polygons) * 3
}

// Validate checks the triangulation and layer invariants.
func (m *MeshData) Validate() error {
	if len(m.Loops) != len(m.Polygons)*3 {
		return fmt.Errorf("%w: %d loops for %d polygons", ErrMalformedMesh, len(m.Loops), len(m.Polygons))
	}
	for i, p := range m.Polygons {
		if p.LoopTotal != 3 {
			return fmt.Errorf("%w: polygon %d has %d corners, want 3", ErrMalformedMesh, i, p.LoopTotal)
		}
		if uint64(p.LoopStart)+3 > uint64(len(m.Loops)) {
			return fmt.Errorf("%w: polygon %d loops %d..%d out of range", ErrMalformedMesh, i, p.LoopStart, uint64(p.LoopStart)+2)
		}
	}
	for i, l := range m.Loops {
		if int(l.Vertex) >= len(m.Positions) {
			return fmt.Errorf("%w: loop %d references vertex %d of %d", ErrMalformedMesh, i, l.Vertex, len(m.Positions))
		}
	}
	if m.UVs != nil && len(m.UVs) != len(m.Loops) {
		return fmt.Errorf("%w: %d UVs for %d loops", ErrMalformedMesh, len(m.UVs), len(m.Loops))
	}
	if m.Colors != nil && len(m.Colors) != len(m.Loops) {
		return fmt.Errorf("%w: %d colors for %d loops", ErrMalformedMesh, len(m.Colors), len(m.Loops))
	}
	return nil
}

// Node is an entry of the exported hierarchy.
type Node struct {
	Name      string
	Index     uint32 // Position in the node list
	IsBone    bool
	Transform pmath.Mat4 // Local transform
	Meshes    []uint32   // Owned mesh indices
	Children  []uint32   // Child node indices
}

// Bone is a skeleton entry.
type Bone struct {
	Name   string
	Parent int32 // -1 for a root bone
	Bind   pmath.Mat4
}

// Material is an entry of the material table. Its index is its position.
type Material struct {
	Name string
}
