package constraint

// HingeLimitState is the limit state of a hinge
type HingeLimitState uint8

const (
	// HingeUnlimitedFree: limits disabled.
	HingeUnlimitedFree HingeLimitState = iota
	// HingeLimitedFree: limits enabled, angle inside the range.
	HingeLimitedFree
	// HingeLimitReached: the hinge sits on a bound and a limit row is submitted.
	HingeLimitReached
)

func (s HingeLimitState) String() string {
	switch s {
	case HingeLimitedFree:
		return "limited-free"
	case HingeLimitReached:
		return "limit-reached"
	default:
		return "unlimited-free"
	}
}

// LimitSide is the bound a reached limit rests on
type LimitSide int8

const (
	LimitNone LimitSide = iota
	LimitLower
	LimitUpper
)

func (s LimitSide) String() string {
	switch s {
	case LimitLower:
		return "lower"
	case LimitUpper:
		return "upper"
	default:
		return "none"
	}
}

// HingeLimit is the state carried by a hinge from one step to the next
type HingeLimit struct {
	State HingeLimitState
	Side  LimitSide
}

// nextHingeLimit returns the limit state for a hinge at angle turning at omega,
// predicted being the angle expected at the end of the step.
//
// The current angle crossing a bound engages the limit. The limit also looks
// one step ahead: a predicted angle past a bound engages it while the current
// angle is still inside the range, so the hinge is stopped before it crosses.
// Once engaged it stays engaged, even back inside the range, until omega points
// away from the bound it rests on.
func nextHingeLimit(prev HingeLimit, hasLimits bool, angle, predicted, omega, minLimit, maxLimit float64) HingeLimit {
	if !hasLimits {
		return HingeLimit{State: HingeUnlimitedFree}
	}

	switch {
	case angle < minLimit:
		return HingeLimit{State: HingeLimitReached, Side: LimitLower}
	case angle > maxLimit:
		return HingeLimit{State: HingeLimitReached, Side: LimitUpper}
	case predicted < minLimit:
		return HingeLimit{State: HingeLimitReached, Side: LimitLower}
	case predicted > maxLimit:
		return HingeLimit{State: HingeLimitReached, Side: LimitUpper}
	}

	if prev.State == HingeLimitReached {
		if prev.Side == LimitLower && omega < 0 {
			return prev
		}
		if prev.Side == LimitUpper && omega > 0 {
			return prev
		}
	}

	return HingeLimit{State: HingeLimitedFree}
}
