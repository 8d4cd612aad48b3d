// Package bbmod encodes scene snapshots into the BBMOD binary model format.
//
// A BBMOD document is a little-endian byte stream without padding, made of
// six blocks in a fixed order: header, vertex format, meshes, nodes,
// skeleton and materials. Reordering them breaks every reader.
package bbmod

import (
	"errors"
	"fmt"
)

// Magic is the file identifier that starts every document, NUL included.
const Magic = "bbmod\x00"

// HeaderSize is the size of the magic plus the version byte.
const HeaderSize = len(Magic) + 1

// Names synthesized by the encoder.
const (
	RootNodeName        = "RootNode"
	DefaultMaterialName = "DefaultMaterial"
)

// Encoding errors.
var (
	ErrUnsupportedObjectKind = errors.New("unsupported object kind")
	ErrInvalidVertexFormat   = errors.New("invalid vertex format selection")
	ErrEmptyScene            = errors.New("scene has no exportable objects")
	ErrIO                    = errors.New("destination not writable")
	ErrMalformedMesh         = errors.New("malformed mesh")
	ErrInvalidNodeTree       = errors.New("invalid node tree")
	ErrInvalidSkeleton       = errors.New("invalid skeleton")
	ErrInvalidName           = errors.New("invalid name")
	ErrUnsupportedRevision   = errors.New("unsupported BBMOD revision")
)

// Revision is the BBMOD format revision, written as the header version byte.
type Revision uint8

const (
	// Revision2 stores node and bone transforms as row-major 4x4 matrices.
	Revision2 Revision = 2
	// Revision3 stores node and bone transforms as dual quaternions.
	Revision3 Revision = 3

	LatestRevision = Revision3
)

// ParseRevision validates a revision number.
func ParseRevision(n int) (Revision, error) {
	r := Revision(n)
	if n < 0 || n > 255 || !r.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedRevision, n)
	}
	return r, nil
}

// Valid reports whether the revision can be written.
func (r Revision) Valid() bool {
	return r == Revision2 || r == Revision3
}

// String returns the revision as "vN".
func (r Revision) String() string {
	return fmt.Sprintf("v%d", uint8(r))
}

// TransformSize returns the byte size of one encoded transform.
func (r Revision) TransformSize() int {
	if r == Revision2 {
		return 16 * 4
	}
	return 8 * 4
}

// EncodeHeader returns the magic followed by the version byte.
func EncodeHeader(r Revision) []byte {
	b := make([]byte, 0, HeaderSize)
	b = append(b, Magic...)
	return append(b, byte(r))
}
