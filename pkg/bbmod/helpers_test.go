package bbmod

import (
	"encoding/binary"
	"math"
	"testing"

	pmath "github.com/Faultbox/bbmod/pkg/math"
)

// reader walks an encoded block in tests.
type reader struct {
	t    *testing.T
	data []byte
	pos  int
}

func newReader(t *testing.T, data []byte) *reader {
	t.Helper()
	return &reader{t: t, data: data}
}

func (r *reader) take(n int) []byte {
	r.t.Helper()
	if r.pos+n > len(r.data) {
		r.t.Fatalf("read %d bytes at offset %d past end (%d)", n, r.pos, len(r.data))
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) u8() uint8 {
	r.t.Helper()
	return r.take(1)[0]
}

func (r *reader) u32() uint32 {
	r.t.Helper()
	return binary.LittleEndian.Uint32(r.take(4))
}

func (r *reader) i32() int32 {
	r.t.Helper()
	return int32(r.u32())
}

func (r *reader) f32() float32 {
	r.t.Helper()
	return math.Float32frombits(r.u32())
}

func (r *reader) f32s(n int) []float32 {
	r.t.Helper()
	out := make([]float32, n)
	for i := range out {
		out[i] = r.f32()
	}
	return out
}

func (r *reader) cstring() string {
	r.t.Helper()
	for i := r.pos; i < len(r.data); i++ {
		if r.data[i] == 0 {
			s := string(r.data[r.pos:i])
			r.pos = i + 1
			return s
		}
	}
	r.t.Fatalf("unterminated string at offset %d", r.pos)
	return ""
}

func (r *reader) done() {
	r.t.Helper()
	if r.pos != len(r.data) {
		r.t.Errorf("%d trailing bytes after offset %d", len(r.data)-r.pos, r.pos)
	}
}

// triangleMesh returns a single triangle in the XY plane facing +Z.
func triangleMesh() *MeshData {
	return &MeshData{
		Positions: []pmath.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Polygons:  []Polygon{{LoopStart: 0, LoopTotal: 3}},
		Loops: []Loop{
			{Vertex: 0, Normal: pmath.Vec3{X: 0, Y: 0, Z: 1}, Tangent: pmath.Vec3{X: 1, Y: 0, Z: 0}, BitangentSign: 1},
			{Vertex: 1, Normal: pmath.Vec3{X: 0, Y: 0, Z: 1}, Tangent: pmath.Vec3{X: 1, Y: 0, Z: 0}, BitangentSign: 1},
			{Vertex: 2, Normal: pmath.Vec3{X: 0, Y: 0, Z: 1}, Tangent: pmath.Vec3{X: 1, Y: 0, Z: 0}, BitangentSign: -1},
		},
	}
}

// quadMesh returns two triangles sharing an edge: 4 positions, 6 corners.
func quadMesh() *MeshData {
	n := pmath.Vec3{X: 0, Y: 0, Z: 1}
	return &MeshData{
		Positions: []pmath.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Polygons:  []Polygon{{0, 3}, {3, 3}},
		Loops: []Loop{
			{Vertex: 0, Normal: n}, {Vertex: 1, Normal: n}, {Vertex: 2, Normal: n},
			{Vertex: 0, Normal: n}, {Vertex: 2, Normal: n}, {Vertex: 3, Normal: n},
		},
	}
}

func meshObject(name string, mesh *MeshData) Object {
	return Object{Name: name, Kind: KindMesh, World: pmath.Identity(), Mesh: mesh}
}
