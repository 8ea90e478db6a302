package constraint

const (
	// MinRegularizer and MaxRegularizer bound the diagonal softness of a row.
	MinRegularizer = 1.0e-4
	MaxRegularizer = 0.99

	// DefaultRegularizer is used by rows that never set one.
	DefaultRegularizer = 1.0e-3

	// DefaultErrorReduction is the fraction of a rigid row's error removed per step.
	DefaultErrorReduction = 0.2
)

// SpringDamperAcceleration returns the target relative acceleration of a row
// with position error posError and relative velocity relVeloc.
//
// It solves the implicit spring-damper step
//
//	a = -(ks x + kd v + dt ks v) / (1 + dt kd + dt² ks)
//
// which is -(ks x + kd v) when dt is zero.
func SpringDamperAcceleration(dt, spring, posError, damper, relVeloc float64) float64 {
	ksd := dt * spring
	num := spring*posError + damper*relVeloc + ksd*relVeloc
	den := 1.0 + dt*damper + dt*ksd
	return -num / den
}

// RigidAcceleration returns the target of a rigid row: cancel the relative
// velocity and recover DefaultErrorReduction of the error in one step.
func RigidAcceleration(invTimestep, posError, relVeloc float64) float64 {
	return -(relVeloc + DefaultErrorReduction*posError*invTimestep) * invTimestep
}

// ClampRegularizer forces r into [MinRegularizer, MaxRegularizer]
func ClampRegularizer(r float64) float64 {
	return min(max(r, MinRegularizer), MaxRegularizer)
}
