package actor

import "github.com/go-gl/mathgl/mgl64"

// BoxInertia returns the inertia tensor of a solid box given its half extents
func BoxInertia(mass float64, halfExtents mgl64.Vec3) mgl64.Mat3 {
	x := halfExtents.X() * 2
	y := halfExtents.Y() * 2
	z := halfExtents.Z() * 2

	// I = (m/12) * (dimension1² + dimension2²)
	factor := mass / 12.0
	return mgl64.Diag3(mgl64.Vec3{
		factor * (y*y + z*z),
		factor * (x*x + z*z),
		factor * (x*x + y*y),
	})
}

// SphereInertia returns the inertia tensor of a solid sphere
func SphereInertia(mass, radius float64) mgl64.Mat3 {
	i := 0.4 * mass * radius * radius
	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}
