package math

// DualQuat is a unit dual quaternion describing a rigid transform.
// Real holds the rotation, Dual encodes the translation as 0.5 * t * Real.
type DualQuat struct {
	Real Quat
	Dual Quat
}

// DualQuatFromRotationTranslation builds a dual quaternion that rotates by r
// and then translates by t.
func DualQuatFromRotationTranslation(r Quat, t Vec3) DualQuat {
	r = r.Normalize()
	return DualQuat{
		Real: r,
		Dual: Quat{X: t.X, Y: t.Y, Z: t.Z}.Mul(r).Scale(0.5),
	}
}

// DualQuatFromMat4 converts an affine matrix. Scale and shear cannot be
// represented and are dropped; use SplitRigid first to keep them.
func DualQuatFromMat4(m Mat4) DualQuat {
	return DualQuatFromRotationTranslation(m.Rotation(), m.Translation())
}

// Array returns the eight components: real X, Y, Z, W then dual X, Y, Z, W.
func (d DualQuat) Array() [8]float32 {
	return [8]float32{
		d.Real.X, d.Real.Y, d.Real.Z, d.Real.W,
		d.Dual.X, d.Dual.Y, d.Dual.Z, d.Dual.W,
	}
}
