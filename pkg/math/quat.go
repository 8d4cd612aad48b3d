package math

import "math"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromMat4 extracts the rotation of m. Scale is divided out of the
// basis columns first, so m may be any affine TRS matrix.
func QuatFromMat4(m Mat4) Quat {
	var r [3][3]float32 // r[row][col]
	for col := 0; col < 3; col++ {
		axis := Vec3{m[col*4], m[col*4+1], m[col*4+2]}.Normalize()
		r[0][col], r[1][col], r[2][col] = axis.X, axis.Y, axis.Z
	}

	var q Quat
	trace := r[0][0] + r[1][1] + r[2][2]
	switch {
	case trace > 0:
		s := 0.5 / sqrt32(trace+1)
		q.W = 0.25 / s
		q.X = (r[2][1] - r[1][2]) * s
		q.Y = (r[0][2] - r[2][0]) * s
		q.Z = (r[1][0] - r[0][1]) * s
	case r[0][0] > r[1][1] && r[0][0] > r[2][2]:
		s := 2 * sqrt32(1+r[0][0]-r[1][1]-r[2][2])
		q.W = (r[2][1] - r[1][2]) / s
		q.X = 0.25 * s
		q.Y = (r[0][1] + r[1][0]) / s
		q.Z = (r[0][2] + r[2][0]) / s
	case r[1][1] > r[2][2]:
		s := 2 * sqrt32(1+r[1][1]-r[0][0]-r[2][2])
		q.W = (r[0][2] - r[2][0]) / s
		q.X = (r[0][1] + r[1][0]) / s
		q.Y = 0.25 * s
		q.Z = (r[1][2] + r[2][1]) / s
	default:
		s := 2 * sqrt32(1+r[2][2]-r[0][0]-r[1][1])
		q.W = (r[1][0] - r[0][1]) / s
		q.X = (r[0][2] + r[2][0]) / s
		q.Y = (r[1][2] + r[2][1]) / s
		q.Z = 0.25 * s
	}
	return q.Normalize()
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Scale multiplies every component by s.
func (q Quat) Scale(s float32) Quat {
	return Quat{X: q.X * s, Y: q.Y * s, Z: q.Z * s, W: q.W * s}
}

// Mul multiplies two quaternions (combines rotations).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
