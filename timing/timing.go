// Package timing implements the tick accounting shared by the countdown
// timers and the instruction clock.
package timing

import (
	"time"

	"github.com/pkg/errors"
)

// ErrTimeReversed is returned when a supplied timestamp precedes the
// accumulator's reference time. Timestamps must be monotonically
// non-decreasing.
var ErrTimeReversed = errors.New("timing: timestamp moved backwards")

// Accumulator converts a monotonically non-decreasing wall-clock time into a
// count of whole ticks elapsed since it was last consumed. Fractional
// progress towards the next tick is retained between calls.
type Accumulator struct {
	ref      time.Time
	interval time.Duration
}

// NewAccumulator creates an accumulator with the given reference time and
// tick interval.
func NewAccumulator(now time.Time, interval time.Duration) Accumulator {
	return Accumulator{ref: now, interval: interval}
}

// Consume returns the number of whole intervals elapsed since the reference
// time and advances the reference time by exactly that many intervals. Any
// remainder smaller than one interval stays pending for the next call.
func (a *Accumulator) Consume(now time.Time) (int, error) {
	elapsed := now.Sub(a.ref)
	if elapsed < 0 {
		return 0, errors.Wrapf(ErrTimeReversed, "%v precedes %v", now, a.ref)
	}

	ticks := int(elapsed / a.interval)
	a.ref = a.ref.Add(time.Duration(ticks) * a.interval)
	return ticks, nil
}

// SetInterval changes the tick interval. The reference time is untouched;
// pending fractional progress is denominated in time, not ticks, so changing
// rate mid-stream neither loses nor fabricates partial progress.
func (a *Accumulator) SetInterval(interval time.Duration) {
	a.interval = interval
}

// SetRate sets the interval from a ticks-per-second frequency.
func (a *Accumulator) SetRate(hz float64) {
	a.interval = time.Duration(float64(time.Second) / hz)
}

// TimerRate is the fixed frequency of the delay and sound timers.
const TimerRate = 60

// Timer is an 8-bit countdown decremented at 60 Hz. The value saturates at
// zero and never wraps.
type Timer struct {
	value uint8
	acc   Accumulator
}

// NewTimer creates a timer seeded with the given reference time.
func NewTimer(now time.Time) Timer {
	return Timer{acc: NewAccumulator(now, time.Second/TimerRate)}
}

// Step subtracts the number of whole 60 Hz periods elapsed since the last
// call, flooring at zero.
func (t *Timer) Step(now time.Time) error {
	ticks, err := t.acc.Consume(now)
	if err != nil {
		return err
	}

	if ticks >= int(t.value) {
		t.value = 0
	} else {
		t.value -= uint8(ticks)
	}
	return nil
}

// Value returns the current countdown value, bypassing timing.
func (t *Timer) Value() uint8 {
	return t.value
}

// SetValue sets the countdown value, bypassing timing.
func (t *Timer) SetValue(v uint8) {
	t.value = v
}
