package frame

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrDurationOutOfRange = errors.New("duration out of range")

// DurationError reports a float to time.Duration conversion that could not
// be represented. Value is expressed in seconds.
type DurationError struct {
	Op    string
	Value float64
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("%s %gs: %s", e.Op, e.Value, ErrDurationOutOfRange)
}

func (e *DurationError) Unwrap() error {
	return ErrDurationOutOfRange
}

// 2^63, the first float64 above math.MaxInt64
const durationNanosLimit = float64(1 << 63)

// FromSeconds converts floating point seconds into a time.Duration,
// rounding to the nearest nanosecond. NaN, infinities and values outside
// the time.Duration range fail with a *DurationError.
func FromSeconds(seconds float64) (time.Duration, error) {
	return fromNanos("from seconds", seconds*float64(time.Second))
}

// ScaleDuration multiplies d by factor.
func ScaleDuration(d time.Duration, factor float64) (time.Duration, error) {
	if factor == 1 {
		return d, nil
	}

	return fromNanos("scale", float64(d)*factor)
}

// AddDuration returns a+b, failing instead of wrapping around on overflow.
func AddDuration(a, b time.Duration) (time.Duration, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, &DurationError{
			Op:    "add",
			Value: a.Seconds() + b.Seconds(),
		}
	}

	return a + b, nil
}

func fromNanos(op string, nanos float64) (time.Duration, error) {
	rounded := math.Round(nanos)
	if math.IsNaN(rounded) || rounded >= durationNanosLimit || rounded < -durationNanosLimit {
		return 0, &DurationError{
			Op:    op,
			Value: nanos / float64(time.Second),
		}
	}

	return time.Duration(rounded), nil
}
