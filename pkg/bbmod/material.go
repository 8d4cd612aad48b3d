package bbmod

import "fmt"

// BuildMaterials creates the material table and the material index of each
// mesh object. Declared materials come first in their given order, then
// names referenced by meshes but not declared. Meshes without a material
// use DefaultMaterialName, which is also the only entry of an otherwise
// empty table.
func BuildMaterials(meshObjects []Object, declared []Material) ([]Material, []uint32) {
	var table []Material
	index := make(map[string]uint32)

	add := func(name string) uint32 {
		if i, ok := index[name]; ok {
			return i
		}
		i := uint32(len(table))
		index[name] = i
		table = append(table, Material{Name: name})
		return i
	}

	for _, m := range declared {
		if m.Name != "" {
			add(m.Name)
		}
	}

	indices := make([]uint32, len(meshObjects))
	for i, obj := range meshObjects {
		name := DefaultMaterialName
		if obj.Mesh != nil && obj.Mesh.Material != "" {
			name = obj.Mesh.Material
		}
		indices[i] = add(name)
	}

	if len(table) == 0 {
		add(DefaultMaterialName)
	}
	return table, indices
}

// EncodeMaterials writes the material count followed by NUL-terminated
// names. An empty list is written as the single default material.
func EncodeMaterials(materials []Material) ([]byte, error) {
	if len(materials) == 0 {
		materials = []Material{{Name: DefaultMaterialName}}
	}

	e := newEncoder(4 + len(materials)*16)
	e.uint32(uint32(len(materials)))
	for i, m := range materials {
		if err := checkName(m.Name); err != nil {
			return nil, fmt.Errorf("%w: material %d name %q", err, i, m.Name)
		}
		e.cstring(m.Name)
	}
	return e.bytes(), nil
}
