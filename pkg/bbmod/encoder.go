package bbmod

import (
	"encoding/binary"
	"math"
	"strings"

	pmath "github.com/Faultbox/bbmod/pkg/math"
)

// encoder appends little-endian values to a growing byte slice.
type encoder struct {
	buf []byte
}

func newEncoder(size int) *encoder {
	return &encoder{buf: make([]byte, 0, size)}
}

func (e *encoder) bytes() []byte {
	return e.buf
}

func (e *encoder) uint8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *encoder) bool(v bool) {
	if v {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

func (e *encoder) uint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *encoder) int32(v int32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(v))
}

func (e *encoder) float32(v float32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, math.Float32bits(v))
}

func (e *encoder) float32s(vs ...float32) {
	for _, v := range vs {
		e.float32(v)
	}
}

func (e *encoder) uint32s(vs []uint32) {
	e.uint32(uint32(len(vs)))
	for _, v := range vs {
		e.uint32(v)
	}
}

func (e *encoder) zeros(n int) {
	for i := 0; i < n; i++ {
		e.buf = append(e.buf, 0)
	}
}

// cstring writes s followed by a NUL terminator.
func (e *encoder) cstring(s string) {
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, 0)
}

// transform writes m in the layout selected by the revision.
func (e *encoder) transform(m pmath.Mat4, r Revision) {
	if r == Revision2 {
		rows := m.RowMajor()
		e.float32s(rows[:]...)
		return
	}
	dq := pmath.DualQuatFromMat4(m).Array()
	e.float32s(dq[:]...)
}

// checkName rejects names a NUL-terminated table cannot hold.
func checkName(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	if strings.IndexByte(name, 0) >= 0 {
		return ErrInvalidName
	}
	return nil
}
