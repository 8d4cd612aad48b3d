package math

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// TransformPoint transforms a point by this matrix (assumes w=1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// TransformVector transforms a direction, ignoring translation.
func (m Mat4) TransformVector(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// TransformNormal transforms a surface normal by the inverse transpose of
// the upper 3x3 and normalizes it. A singular matrix yields the zero vector.
func (m Mat4) TransformNormal(n Vec3) Vec3 {
	c0, c1, c2 := m.column(0), m.column(1), m.column(2)
	// Columns of the cofactor matrix; cofactor = det * inverse transpose.
	out := c1.Cross(c2).Scale(n.X).
		Add(c2.Cross(c0).Scale(n.Y)).
		Add(c0.Cross(c1).Scale(n.Z))
	if c0.Dot(c1.Cross(c2)) < 0 {
		out = out.Scale(-1)
	}
	return out.Normalize()
}

// Determinant returns the determinant of the upper 3x3. It is negative when
// the matrix mirrors.
func (m Mat4) Determinant() float32 {
	return m.column(0).Dot(m.column(1).Cross(m.column(2)))
}

func (m Mat4) column(i int) Vec3 {
	return Vec3{m[i*4], m[i*4+1], m[i*4+2]}
}

// SplitRigid factors an affine matrix into rigid * residual. rigid holds a
// proper rotation and the translation; residual holds scale, shear and a
// mirror, with no translation.
func SplitRigid(m Mat4) (rigid, residual Mat4) {
	basis := m
	basis[12], basis[13], basis[14] = 0, 0, 0

	oriented := basis
	if basis.Determinant() < 0 {
		oriented = basis.Mul(Scale(-1, 1, 1))
	}
	rot := QuatFromMat4(oriented).ToMat4()

	t := m.Translation()
	rigid = Translate(t.X, t.Y, t.Z).Mul(rot)
	residual = rot.Transpose().Mul(basis)
	return rigid, residual
}

// ApproxIdentity reports whether every element is within eps of the
// identity matrix.
func (m Mat4) ApproxIdentity(eps float32) bool {
	id := Identity()
	for i := range m {
		d := m[i] - id[i]
		if d > eps || d < -eps {
			return false
		}
	}
	return true
}

// Transpose swaps rows and columns.
func (m Mat4) Transpose() Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[row*4+col] = m[col*4+row]
		}
	}
	return result
}

// RowMajor returns the elements row by row, the order used by
// matrix-based node transforms on disk.
func (m Mat4) RowMajor() [16]float32 {
	return [16]float32(m.Transpose())
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Rotation returns the rotation part as a quaternion.
func (m Mat4) Rotation() Quat {
	return QuatFromMat4(m)
}
