package bbmod

import (
	"fmt"
	"strings"
)

// Attribute is a per-vertex field. The constant order is the order of the
// format block and of the fields inside each vertex record.
type Attribute uint8

const (
	AttrPosition    Attribute = iota // 3 x float32
	AttrNormal                       // 3 x float32
	AttrTexCoord                     // 2 x float32
	AttrColor                        // 4 x uint8
	AttrTangentW                     // 3 x float32 tangent + float32 bitangent sign
	AttrBoneWeights                  // 4 x float32 indices + 4 x float32 weights
	AttrIDs                          // float32 vertex id

	// AttributeCount is the size of the vocabulary and of the format block.
	AttributeCount = 7
)

var attributeNames = [AttributeCount]string{
	"position",
	"normal",
	"texcoord",
	"color",
	"tangentW",
	"boneWeights",
	"ids",
}

var attributeSizes = [AttributeCount]int{12, 12, 8, 4, 16, 32, 4}

// Attributes returns the whole vocabulary in format order.
func Attributes() []Attribute {
	out := make([]Attribute, AttributeCount)
	for i := range out {
		out[i] = Attribute(i)
	}
	return out
}

// ParseAttribute looks a name up in the vocabulary, ignoring case.
func ParseAttribute(name string) (Attribute, bool) {
	for i, n := range attributeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Attribute(i), true
		}
	}
	return 0, false
}

// String returns the vocabulary name.
func (a Attribute) String() string {
	if int(a) < AttributeCount {
		return attributeNames[a]
	}
	return fmt.Sprintf("Attribute(%d)", a)
}

// Size returns the number of bytes the attribute adds to a vertex record.
func (a Attribute) Size() int {
	if int(a) < AttributeCount {
		return attributeSizes[a]
	}
	return 0
}

// VertexFormat is the set of attributes written for every vertex.
type VertexFormat uint8

const (
	// FullVertexFormat enables every attribute.
	FullVertexFormat VertexFormat = 1<<AttributeCount - 1

	// DefaultVertexFormat is the static mesh layout.
	DefaultVertexFormat = VertexFormat(1<<AttrPosition | 1<<AttrNormal | 1<<AttrTexCoord | 1<<AttrColor | 1<<AttrTangentW)
)

// NewVertexFormat builds a format from attributes. Order does not matter.
func NewVertexFormat(attrs ...Attribute) VertexFormat {
	var f VertexFormat
	for _, a := range attrs {
		f = f.With(a)
	}
	return f
}

// ParseVertexFormat builds a format from vocabulary names. Unknown names are
// left out of the returned format and reported together in an error
// wrapping ErrInvalidVertexFormat, so callers may choose to proceed.
func ParseVertexFormat(names ...string) (VertexFormat, error) {
	var f VertexFormat
	var unknown []string
	for _, name := range names {
		a, ok := ParseAttribute(name)
		if !ok {
			unknown = append(unknown, fmt.Sprintf("%q", name))
			continue
		}
		f = f.With(a)
	}
	if len(unknown) > 0 {
		return f, fmt.Errorf("%w: unknown attributes %s", ErrInvalidVertexFormat, strings.Join(unknown, ", "))
	}
	return f, nil
}

// Has reports whether the attribute is enabled. Both the format block and
// the mesh encoder decide through this method.
func (f VertexFormat) Has(a Attribute) bool {
	return int(a) < AttributeCount && f&(1<<a) != 0
}

// With returns the format with a enabled. Attributes outside the
// vocabulary are ignored.
func (f VertexFormat) With(a Attribute) VertexFormat {
	if int(a) >= AttributeCount {
		return f
	}
	return f | 1<<a
}

// Attributes returns the enabled attributes in format order.
func (f VertexFormat) Attributes() []Attribute {
	var out []Attribute
	for a := Attribute(0); a < AttributeCount; a++ {
		if f.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// RecordSize returns the byte size of one vertex record.
func (f VertexFormat) RecordSize() int {
	size := 0
	for _, a := range f.Attributes() {
		size += a.Size()
	}
	return size
}

// Encode returns one boolean byte per vocabulary entry, in vocabulary order.
func (f VertexFormat) Encode() []byte {
	e := newEncoder(AttributeCount)
	for a := Attribute(0); a < AttributeCount; a++ {
		e.bool(f.Has(a))
	}
	return e.bytes()
}

// String lists the enabled attributes, e.g. "position|normal".
func (f VertexFormat) String() string {
	attrs := f.Attributes()
	if len(attrs) == 0 {
		return "none"
	}
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.String()
	}
	return strings.Join(names, "|")
}
