package math

import (
	"math"
	"testing"
)

// axisAngle builds a rotation quaternion; axis must be normalized.
func axisAngle(axis Vec3, angle float64) Quat {
	s := float32(math.Sin(angle / 2))
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: float32(math.Cos(angle / 2))}
}

// sameRotation reports whether a and b encode the same rotation; q and -q
// are equivalent.
func sameRotation(a, b Quat) bool {
	return abs(a.X*b.X+a.Y*b.Y+a.Z*b.Z+a.W*b.W) > 0.999
}

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToMat4(t *testing.T) {
	// Identity quaternion should produce identity matrix
	m := QuatIdentity().ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(m[i]-identity[i])) > 0.0001 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestQuatToMat4RotatesZ90(t *testing.T) {
	m := axisAngle(Vec3{0, 0, 1}, math.Pi/2).ToMat4()
	got := m.TransformPoint(Vec3{1, 0, 0})

	if abs(got.X) > 0.001 || abs(got.Y-1) > 0.001 || abs(got.Z) > 0.001 {
		t.Errorf("Z 90 of +X: got %v, want (0, 1, 0)", got)
	}
}

func TestQuatFromMat4RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		axis  Vec3
		angle float64
	}{
		{"none", Vec3{0, 1, 0}, 0},
		{"y 90", Vec3{0, 1, 0}, math.Pi / 2},
		{"x 180", Vec3{1, 0, 0}, math.Pi},
		{"z 200", Vec3{0, 0, 1}, 200 * math.Pi / 180},
		{"diagonal 120", Vec3{1, 1, 1}.Normalize(), 2 * math.Pi / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := axisAngle(tt.axis, tt.angle)
			got := QuatFromMat4(want.ToMat4())
			if !sameRotation(got, want) {
				t.Errorf("QuatFromMat4: got %+v, want %+v", got, want)
			}
		})
	}
}

func TestQuatFromMat4IgnoresScale(t *testing.T) {
	want := axisAngle(Vec3{0, 0, 1}, 0.7)
	m := want.ToMat4().Mul(Scale(2, 3, 4))

	got := QuatFromMat4(m)
	if !sameRotation(got, want) {
		t.Errorf("QuatFromMat4 with scale: got %+v, want %+v", got, want)
	}
}
