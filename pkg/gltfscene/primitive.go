package gltfscene

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/bbmod/pkg/bbmod"
	pmath "github.com/Faultbox/bbmod/pkg/math"
)

// primitive converts one glTF primitive into triangulated mesh data. It
// returns nil, nil for point and line primitives. name is used in warnings.
func (c *converter) primitive(name string, prim *gltf.Primitive) (*bbmod.MeshData, error) {
	posIndex, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("primitive has no POSITION attribute")
	}
	acr, err := c.accessor(posIndex)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(c.doc, acr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "reading POSITION")
	}

	indices, err := c.indices(prim, len(positions))
	if err != nil {
		return nil, err
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, errors.Errorf("index %d out of range (%d vertices)", idx, len(positions))
		}
	}

	tris, ok := triangulate(prim.Mode, indices)
	if !ok {
		return nil, nil
	}
	if prim.Mode == gltf.PrimitiveTriangles && len(indices)%3 != 0 {
		c.warn("%s: %d trailing indices do not form a triangle, dropped", name, len(indices)%3)
	}

	var normals [][3]float32
	if i, ok := prim.Attributes["NORMAL"]; ok {
		if acr, err = c.accessor(i); err != nil {
			return nil, err
		}
		if normals, err = modeler.ReadNormal(c.doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "reading NORMAL")
		}
	}
	var tangents [][4]float32
	if i, ok := prim.Attributes["TANGENT"]; ok {
		if acr, err = c.accessor(i); err != nil {
			return nil, err
		}
		if tangents, err = modeler.ReadTangent(c.doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "reading TANGENT")
		}
	}
	var uvs [][2]float32
	if i, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if acr, err = c.accessor(i); err != nil {
			return nil, err
		}
		if uvs, err = modeler.ReadTextureCoord(c.doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "reading TEXCOORD_0")
		}
	}
	var colors [][4]uint8
	if i, ok := prim.Attributes["COLOR_0"]; ok {
		if acr, err = c.accessor(i); err != nil {
			return nil, err
		}
		if colors, err = modeler.ReadColor(c.doc, acr, nil); err != nil {
			return nil, errors.Wrap(err, "reading COLOR_0")
		}
	}

	for name, n := range map[string]int{"NORMAL": len(normals), "TANGENT": len(tangents), "TEXCOORD_0": len(uvs), "COLOR_0": len(colors)} {
		if n != 0 && n != len(positions) {
			return nil, errors.Errorf("%s has %d elements for %d vertices", name, n, len(positions))
		}
	}

	mesh := &bbmod.MeshData{
		Positions: make([]pmath.Vec3, len(positions)),
		Polygons:  make([]bbmod.Polygon, len(tris)),
		Loops:     make([]bbmod.Loop, 0, len(tris)*3),
	}
	for i, p := range positions {
		mesh.Positions[i] = pmath.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	if uvs != nil {
		mesh.UVs = make([]pmath.Vec2, 0, len(tris)*3)
	}
	if colors != nil {
		mesh.Colors = make([][4]uint8, 0, len(tris)*3)
	}
	if prim.Material != nil {
		if int(*prim.Material) >= len(c.doc.Materials) {
			return nil, errors.Errorf("material index %d out of range", *prim.Material)
		}
		mesh.Material = materialName(c.doc.Materials[*prim.Material], *prim.Material)
	}

	for t, tri := range tris {
		mesh.Polygons[t] = bbmod.Polygon{LoopStart: uint32(t * 3), LoopTotal: 3}
		face := faceNormal(mesh.Positions[tri[0]], mesh.Positions[tri[1]], mesh.Positions[tri[2]])

		for _, v := range tri {
			loop := bbmod.Loop{
				Vertex:        v,
				Normal:        face,
				Tangent:       pmath.Vec3{X: 1},
				BitangentSign: 1,
			}
			if normals != nil {
				n := normals[v]
				loop.Normal = pmath.Vec3{X: n[0], Y: n[1], Z: n[2]}
			}
			if tangents != nil {
				tg := tangents[v]
				loop.Tangent = pmath.Vec3{X: tg[0], Y: tg[1], Z: tg[2]}
				loop.BitangentSign = tg[3]
			}
			mesh.Loops = append(mesh.Loops, loop)

			if uvs != nil {
				mesh.UVs = append(mesh.UVs, pmath.Vec2{X: uvs[v][0], Y: uvs[v][1]})
			}
			if colors != nil {
				mesh.Colors = append(mesh.Colors, colors[v])
			}
		}
	}

	return mesh, nil
}

func (c *converter) accessor(index uint32) (*gltf.Accessor, error) {
	if int(index) >= len(c.doc.Accessors) || c.doc.Accessors[index] == nil {
		return nil, errors.Errorf("accessor %d out of range (%d accessors)", index, len(c.doc.Accessors))
	}
	return c.doc.Accessors[index], nil
}

// indices reads the index accessor, or numbers the vertices in order for
// non-indexed primitives.
func (c *converter) indices(prim *gltf.Primitive, vertexCount int) ([]uint32, error) {
	if prim.Indices == nil {
		out := make([]uint32, vertexCount)
		for i := range out {
			out[i] = uint32(i)
		}
		return out, nil
	}
	acr, err := c.accessor(*prim.Indices)
	if err != nil {
		return nil, err
	}
	out, err := modeler.ReadIndices(c.doc, acr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "reading indices")
	}
	return out, nil
}

// triangulate turns an index list into triangles according to the
// primitive mode. Trailing indices that do not complete a triangle are
// dropped. ok is false for point and line modes.
func triangulate(mode gltf.PrimitiveMode, indices []uint32) (tris [][3]uint32, ok bool) {
	switch mode {
	case gltf.PrimitiveTriangles:
		for i := 0; i+2 < len(indices); i += 3 {
			tris = append(tris, [3]uint32{indices[i], indices[i+1], indices[i+2]})
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			// Odd triangles swap their first two corners to keep the winding.
			if i%2 == 0 {
				tris = append(tris, [3]uint32{indices[i], indices[i+1], indices[i+2]})
			} else {
				tris = append(tris, [3]uint32{indices[i+1], indices[i], indices[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			tris = append(tris, [3]uint32{indices[0], indices[i], indices[i+1]})
		}
	default:
		return nil, false
	}
	return tris, true
}

// faceNormal is used when the primitive carries no normals.
func faceNormal(a, b, c pmath.Vec3) pmath.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	if n == (pmath.Vec3{}) {
		return pmath.Vec3{Z: 1}
	}
	return n
}
