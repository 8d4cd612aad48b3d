package bbmod

import (
	pmath "github.com/Faultbox/bbmod/pkg/math"
)

// residualEpsilon is the largest element difference from identity that
// still counts as a rigid transform.
const residualEpsilon = 1e-5

// splitWorld prepares obj for a node that can only hold rotation and
// translation. The rigid part of obj.World stays on the object; scale,
// shear and mirroring are applied to a copy of the mesh. obj.Mesh is never
// modified.
func splitWorld(obj Object) (Object, error) {
	if obj.Mesh == nil {
		return obj, nil
	}
	rigid, residual := pmath.SplitRigid(obj.World)
	if residual.ApproxIdentity(residualEpsilon) {
		return obj, nil
	}
	if err := obj.Mesh.Validate(); err != nil {
		return obj, err
	}
	obj.World = rigid
	obj.Mesh = bakeMesh(obj.Mesh, residual)
	return obj, nil
}

// bakeMesh returns src transformed by m. When m mirrors, triangle winding
// is reversed and bitangent signs are flipped so faces keep pointing out.
func bakeMesh(src *MeshData, m pmath.Mat4) *MeshData {
	mirrored := m.Determinant() < 0

	dst := &MeshData{
		Positions: make([]pmath.Vec3, len(src.Positions)),
		Polygons:  make([]Polygon, len(src.Polygons)),
		Loops:     make([]Loop, 0, len(src.Loops)),
		Material:  src.Material,
	}
	for i, p := range src.Positions {
		dst.Positions[i] = m.TransformPoint(p)
	}
	if src.UVs != nil {
		dst.UVs = make([]pmath.Vec2, 0, len(src.Loops))
	}
	if src.Colors != nil {
		dst.Colors = make([][4]uint8, 0, len(src.Loops))
	}

	for p, poly := range src.Polygons {
		dst.Polygons[p] = Polygon{LoopStart: uint32(len(dst.Loops)), LoopTotal: poly.LoopTotal}
		for k := uint32(0); k < poly.LoopTotal; k++ {
			i := poly.LoopStart + k
			if mirrored && k > 0 {
				i = poly.LoopStart + poly.LoopTotal - k
			}

			loop := src.Loops[i]
			loop.Normal = m.TransformNormal(loop.Normal)
			loop.Tangent = m.TransformVector(loop.Tangent).Normalize()
			if mirrored {
				loop.BitangentSign = -loop.BitangentSign
			}
			dst.Loops = append(dst.Loops, loop)

			if src.UVs != nil {
				dst.UVs = append(dst.UVs, src.UVs[i])
			}
			if src.Colors != nil {
				dst.Colors = append(dst.Colors, src.Colors[i])
			}
		}
	}
	return dst
}
