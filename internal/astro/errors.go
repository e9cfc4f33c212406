package astro

import (
	"errors"
	"fmt"
)

// Errors surfaced by the calculation core.
var (
	// ErrNoBracket means the twilight search could not find a time bracket
	// where the Sun crosses the target altitude. This is the expected outcome
	// for polar day/night and is surfaced, never swallowed.
	ErrNoBracket = errors.New("astro: no sign-changing bracket found for altitude crossing")

	// ErrNoConvergence means bisection exhausted its iteration budget without
	// narrowing the bracket below tolerance.
	ErrNoConvergence = errors.New("astro: bisection did not converge within iteration budget")

	// ErrTimeOutOfRange means the instant is outside the validity window of a
	// high-precision series.
	ErrTimeOutOfRange = errors.New("astro: instant outside supported year range [1000, 3000]")
)

// PrecisionError wraps any failure inside a high-precision code path. The
// dispatch layer converts it into a fallback to the standard path; callers
// only ever see it if the standard path also fails.
type PrecisionError struct {
	Op  string // calculation component, e.g. "sidereal", "sun", "moon"
	Err error
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("astro: high-precision %s failed: %v", e.Op, e.Err)
}

func (e *PrecisionError) Unwrap() error { return e.Err }
