package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// result in radians
func QuatToAxisAngle(q mgl32.Quat) (axis mgl32.Vec3, angle float32) {
	q = q.Normalize()

	angle = 2 * float32(math.Acos(float64(mgl32.Clamp(q.W, -1, 1))))

	s := float32(math.Sqrt(float64(1 - q.W*q.W)))
	if s < 1e-5 {
		// angle ~0, axis choice irrelevant
		return mgl32.Vec3{1, 0, 0}, angle
	}
	return q.V.Mul(1 / s), angle
}
