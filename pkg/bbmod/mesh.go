package bbmod

import (
	"fmt"

	pmath "github.com/Faultbox/bbmod/pkg/math"
)

// White is written for color when the mesh has no color layer.
var White = [4]uint8{255, 255, 255, 255}

// EncodeMesh serializes one mesh object: material index, vertex count, then
// one record per triangle corner. Corners are not shared, so a vertex used
// by several triangles is written once per use.
func EncodeMesh(obj Object, materialIndex uint32, format VertexFormat) ([]byte, error) {
	if obj.Kind != KindMesh {
		return nil, fmt.Errorf("%w: %q is %s", ErrUnsupportedObjectKind, obj.Name, obj.Kind)
	}
	if obj.Mesh == nil {
		return nil, fmt.Errorf("%w: %q has no mesh data", ErrUnsupportedObjectKind, obj.Name)
	}

	mesh := obj.Mesh
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	vertexCount := mesh.VertexCount()
	e := newEncoder(8 + vertexCount*format.RecordSize())
	e.uint32(materialIndex)
	e.uint32(uint32(vertexCount))

	for _, poly := range mesh.Polygons {
		for i := poly.LoopStart; i < poly.LoopStart+poly.LoopTotal; i++ {
			writeVertex(e, mesh, i, format)
		}
	}

	return e.bytes(), nil
}

// writeVertex writes the record for loop i. Enabled attributes without
// source data get a fixed-size default so the record always matches the
// declared format.
func writeVertex(e *encoder, mesh *MeshData, i uint32, format VertexFormat) {
	loop := mesh.Loops[i]

	if format.Has(AttrPosition) {
		writeVec3(e, mesh.Positions[loop.Vertex])
	}
	if format.Has(AttrNormal) {
		writeVec3(e, loop.Normal)
	}
	if format.Has(AttrTexCoord) {
		var uv pmath.Vec2
		if mesh.UVs != nil {
			uv = mesh.UVs[i]
		}
		e.float32s(uv.X, uv.Y)
	}
	if format.Has(AttrColor) {
		c := White
		if mesh.Colors != nil {
			c = mesh.Colors[i]
		}
		e.buf = append(e.buf, c[:]...)
	}
	if format.Has(AttrTangentW) {
		writeVec3(e, loop.Tangent)
		e.float32(loop.BitangentSign)
	}
	if format.Has(AttrBoneWeights) {
		// Skinning is not exported yet: four zero bone indices, four zero weights.
		e.zeros(AttrBoneWeights.Size())
	}
	if format.Has(AttrIDs) {
		e.zeros(AttrIDs.Size())
	}
}

func writeVec3(e *encoder, v pmath.Vec3) {
	e.float32s(v.X, v.Y, v.Z)
}
