package bbmod

import "fmt"

// EncodeSkeleton writes the bone count followed by one record per bone:
// name, parent index and bind transform. Parents must come before their
// children.
func EncodeSkeleton(bones []Bone, r Revision) ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedRevision, uint8(r))
	}

	e := newEncoder(4 + len(bones)*(16+r.TransformSize()))
	e.uint32(uint32(len(bones)))
	for i, bone := range bones {
		if err := checkName(bone.Name); err != nil {
			return nil, fmt.Errorf("%w: bone %d name %q", err, i, bone.Name)
		}
		if bone.Parent < -1 || int(bone.Parent) >= i {
			return nil, fmt.Errorf("%w: bone %q has parent %d", ErrInvalidSkeleton, bone.Name, bone.Parent)
		}
		e.cstring(bone.Name)
		e.int32(bone.Parent)
		e.transform(bone.Bind, r)
	}
	return e.bytes(), nil
}
