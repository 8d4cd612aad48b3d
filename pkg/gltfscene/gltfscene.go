// Package gltfscene converts glTF 2.0 documents into BBMOD scene snapshots.
//
// It plays the host role for the encoder: primitives are triangulated here,
// so the snapshot it returns only contains triangle lists. The source
// document is never modified.
package gltfscene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/bbmod/pkg/bbmod"
	pmath "github.com/Faultbox/bbmod/pkg/math"
)

// Import is the result of converting a document.
type Import struct {
	Scene    *bbmod.Scene
	Warnings []string // Primitives or nodes that were left out
}

// Load opens a .gltf or .glb file and converts its default scene.
func Load(path string) (*Import, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return FromDocument(doc)
}

// FromDocument converts the default scene of doc, or every root node when
// the document declares no scene. Objects are listed in depth-first node
// order, one mesh object per primitive.
func FromDocument(doc *gltf.Document) (*Import, error) {
	c := &converter{
		doc:     doc,
		scene:   &bbmod.Scene{},
		visited: make(map[uint32]bool),
	}

	for i, m := range doc.Materials {
		c.scene.Materials = append(c.scene.Materials, bbmod.Material{Name: materialName(m, uint32(i))})
	}

	for _, root := range c.roots() {
		if err := c.walk(root, mgl32.Ident4()); err != nil {
			return nil, err
		}
	}

	return &Import{Scene: c.scene, Warnings: c.warnings}, nil
}

type converter struct {
	doc      *gltf.Document
	scene    *bbmod.Scene
	visited  map[uint32]bool
	warnings []string
}

func (c *converter) warn(format string, args ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// roots returns the node indices to start from.
func (c *converter) roots() []uint32 {
	if len(c.doc.Scenes) > 0 {
		scene := uint32(0)
		if c.doc.Scene != nil && int(*c.doc.Scene) < len(c.doc.Scenes) {
			scene = *c.doc.Scene
		}
		return c.doc.Scenes[scene].Nodes
	}

	child := make(map[uint32]bool)
	for _, n := range c.doc.Nodes {
		for _, ch := range n.Children {
			child[ch] = true
		}
	}
	var roots []uint32
	for i := range c.doc.Nodes {
		if !child[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

func (c *converter) walk(index uint32, parent mgl32.Mat4) error {
	if int(index) >= len(c.doc.Nodes) {
		return errors.Errorf("node index %d out of range (%d nodes)", index, len(c.doc.Nodes))
	}
	if c.visited[index] {
		return errors.Errorf("node %d is reachable twice", index)
	}
	c.visited[index] = true

	node := c.doc.Nodes[index]
	world := parent.Mul4(localTransform(node))
	name := node.Name
	if name == "" {
		name = fmt.Sprintf("Node%d", index)
	}

	switch {
	case node.Mesh != nil:
		if err := c.addMesh(name, *node.Mesh, world); err != nil {
			return errors.Wrapf(err, "node %q", name)
		}
	case node.Camera != nil:
		c.scene.Objects = append(c.scene.Objects, bbmod.Object{Name: name, Kind: bbmod.KindCamera, World: toMat4(world)})
	default:
		c.scene.Objects = append(c.scene.Objects, bbmod.Object{Name: name, Kind: bbmod.KindEmpty, World: toMat4(world)})
	}

	for _, child := range node.Children {
		if err := c.walk(child, world); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) addMesh(name string, meshIndex uint32, world mgl32.Mat4) error {
	if int(meshIndex) >= len(c.doc.Meshes) {
		return errors.Errorf("mesh index %d out of range", meshIndex)
	}
	mesh := c.doc.Meshes[meshIndex]

	for i, prim := range mesh.Primitives {
		objName := name
		if len(mesh.Primitives) > 1 {
			objName = fmt.Sprintf("%s.%d", name, i)
		}

		data, err := c.primitive(objName, prim)
		if err != nil {
			return errors.Wrapf(err, "primitive %d", i)
		}
		if data == nil {
			c.warn("%s: primitive mode %v is not a triangle mode, skipped", objName, prim.Mode)
			continue
		}

		c.scene.Objects = append(c.scene.Objects, bbmod.Object{
			Name:  objName,
			Kind:  bbmod.KindMesh,
			World: toMat4(world),
			Mesh:  data,
		})
	}
	return nil
}

// localTransform returns the node matrix, or T * R * S when the node
// uses TRS properties.
func localTransform(node *gltf.Node) mgl32.Mat4 {
	m := mgl32.Mat4(node.Matrix)
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return m
	}

	s := node.Scale
	if s == ([3]float32{}) {
		s = [3]float32{1, 1, 1}
	}
	r := node.Rotation
	if r == ([4]float32{}) {
		r = [4]float32{0, 0, 0, 1}
	}
	t := node.Translation

	rot := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

func toMat4(m mgl32.Mat4) pmath.Mat4 {
	return pmath.Mat4(m)
}

func materialName(m *gltf.Material, index uint32) string {
	if m != nil && m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("Material%d", index)
}
