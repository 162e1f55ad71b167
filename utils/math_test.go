package utils

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuatToAxisAngle(t *testing.T) {
	tests := []struct {
		axis  mgl32.Vec3
		angle float32
	}{
		{mgl32.Vec3{0, 0, 1}, math.Pi / 2},
		{mgl32.Vec3{0, 1, 0}, math.Pi},
		{mgl32.Vec3{1, 0, 0}, 0.25},
	}

	for _, test := range tests {
		q := mgl32.QuatRotate(test.angle, test.axis)
		axis, angle := QuatToAxisAngle(q)
		if math.Abs(float64(angle-test.angle)) > 1e-5 {
			t.Errorf("Wrong angle %v for %v around %v", angle, test.angle, test.axis)
		}
		if axis.Sub(test.axis).Len() > 1e-5 {
			t.Errorf("Wrong axis %v for %v around %v", axis, test.angle, test.axis)
		}
	}
}

func TestQuatToAxisAngleIdentity(t *testing.T) {
	axis, angle := QuatToAxisAngle(mgl32.QuatIdent())
	if angle != 0 {
		t.Errorf("Identity quaternion has angle %v", angle)
	}
	if axis.Len() == 0 {
		t.Error("Identity quaternion produced a zero axis")
	}
}
