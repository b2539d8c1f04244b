// Package orient implements the orientation controller: shortest-arc
// interpolation between unit quaternions and the angular distance used to
// decide convergence. It holds no state; callers own the epsilon and the
// snap-on-convergence policy.
package orient

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// nlerpThreshold is the cosine above which Slerp falls back to a normalized
// lerp; acos loses precision there.
const nlerpThreshold = 0.9995

// minDirection is the shortest direction FromTo accepts.
const minDirection = 1e-6

// Distance returns the shortest-arc angle in radians between the
// orientations a and b, in [0, π].
func Distance(a, b mgl32.Quat) float32 {
	r := a.Conjugate().Mul(b)
	return 2 * math32.Atan2(r.V.Len(), math32.Abs(r.W))
}

// Slerp spherically interpolates from a to b along the shortest arc.
// t <= 0 yields a and t >= 1 yields b exactly.
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	cos := a.Dot(b)
	if cos < 0 {
		b = b.Scale(-1)
		cos = -cos
	}
	if cos > nlerpThreshold {
		return a.Add(b.Sub(a).Scale(t)).Normalize()
	}
	theta := math32.Acos(cos)
	sin := math32.Sin(theta)
	wa := math32.Sin((1-t)*theta) / sin
	wb := math32.Sin(t*theta) / sin
	return a.Scale(wa).Add(b.Scale(wb))
}

// SlerpToward advances current toward target by factor and reports the
// angular distance still remaining.
func SlerpToward(current, target mgl32.Quat, factor float32) (mgl32.Quat, float32) {
	next := Slerp(current, target, factor)
	return next, Distance(next, target)
}

// FromTo returns the rotation taking the reference axis ref onto dir.
// ok is false when either vector is too short to normalize or the result is
// not a finite rotation.
func FromTo(ref, dir mgl32.Vec3) (q mgl32.Quat, ok bool) {
	if !finiteVec(ref) || !finiteVec(dir) {
		return mgl32.Quat{}, false
	}
	if ref.Len() < minDirection || dir.Len() < minDirection {
		return mgl32.Quat{}, false
	}
	q = mgl32.QuatBetweenVectors(ref.Normalize(), dir.Normalize())
	if !Valid(q) {
		return mgl32.Quat{}, false
	}
	return q.Normalize(), true
}

// Toward is FromTo for the direction from → to.
func Toward(ref, from, to mgl32.Vec3) (mgl32.Quat, bool) {
	return FromTo(ref, to.Sub(from))
}

// RotateLocal applies a rotation of angle radians about axis, expressed in
// q's local frame. A degenerate axis leaves q unchanged.
func RotateLocal(q mgl32.Quat, axis mgl32.Vec3, angle float32) mgl32.Quat {
	if axis.Len() < minDirection || !finiteVec(axis) {
		return q
	}
	return q.Mul(mgl32.QuatRotate(angle, axis.Normalize())).Normalize()
}

// Valid reports whether q is finite and non-zero.
func Valid(q mgl32.Quat) bool {
	if !finite(q.W) || !finiteVec(q.V) {
		return false
	}
	return q.Len() > 0
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

func finiteVec(v mgl32.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}
