package runner

import "strconv"

// Limit says how many calls a run performs. The zero value is Unbounded.
type Limit struct {
	max     int64
	bounded bool
}

// Bounded limits a run to exactly n calls. Negative n is treated as zero.
func Bounded(n int64) Limit {
	if n < 0 {
		n = 0
	}
	return Limit{max: n, bounded: true}
}

// Unbounded keeps a run going until its context is cancelled.
func Unbounded() Limit {
	return Limit{}
}

// LimitFromTimes maps the --times flag onto a Limit: 0 means run forever.
func LimitFromTimes(times int) Limit {
	if times <= 0 {
		return Unbounded()
	}
	return Bounded(int64(times))
}

// IsBounded reports whether the run stops on its own.
func (l Limit) IsBounded() bool {
	return l.bounded
}

// Max returns the call budget of a bounded limit, or 0 when unbounded.
func (l Limit) Max() int64 {
	return l.max
}

// Allows reports whether another call may start after completed calls.
func (l Limit) Allows(completed int64) bool {
	return !l.bounded || completed < l.max
}

func (l Limit) String() string {
	if !l.bounded {
		return "unbounded"
	}
	return strconv.FormatInt(l.max, 10)
}
