package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Helper functions for testing, absolute tolerance on every component
func vec3ApproxEqual(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance &&
		math.Abs(a.Z()-b.Z()) < tolerance
}

func quatApproxEqual(a, b mgl64.Quat, tolerance float64) bool {
	return math.Abs(a.W-b.W) < tolerance && vec3ApproxEqual(a.V, b.V, tolerance)
}

func mat3ApproxEqual(a, b mgl64.Mat3, tolerance float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) >= tolerance {
			return false
		}
	}
	return true
}

func mat4ApproxEqual(a, b mgl64.Mat4, tolerance float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) >= tolerance {
			return false
		}
	}
	return true
}
