// Package clock generates the periodic edge events that pace a verification
// run.
//
// A Clock is a pure generator over virtual time: it never sleeps and owns no
// goroutine. The kernel pulls edges from it one at a time, so a clock runs
// for as long as somebody keeps asking and there is nothing to stop.
package clock

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Time is a point in virtual time, counted in the clock's unit.
type Time uint64

// Unit is the length of one Time tick.
type Unit int

const (
	Femtosecond Unit = iota
	Picosecond
	Nanosecond
	Microsecond
	Millisecond
	Second
)

var unitNames = []string{"fs", "ps", "ns", "us", "ms", "s"}

// ParseUnit parses a unit name such as "ns".
func ParseUnit(s string) (Unit, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range unitNames {
		if n == name {
			return Unit(i), nil
		}
	}
	return 0, errors.Errorf("unknown time unit %q", s)
}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return fmt.Sprintf("unit(%d)", int(u))
	}
	return unitNames[u]
}

// Seconds returns the length of one tick of u in seconds.
func (u Unit) Seconds() float64 {
	s := 1e-15
	for i := Femtosecond; i < u; i++ {
		s *= 1e3
	}
	return s
}

type Edge int

const (
	Rising Edge = iota
	Falling
)

func (e Edge) String() string {
	if e == Rising {
		return "rising"
	}
	return "falling"
}

// Event is a single clock transition.
type Event struct {
	Time  Time
	Edge  Edge
	Cycle uint64
}

// Clock emits alternating rising and falling edges. The signal is high for
// period/2 ticks and low for the remainder, starting with a rising edge at
// t=0.
type Clock struct {
	period Time
	unit   Unit
	high   Time

	next  Time
	level bool
	cycle uint64
}

// New creates a clock with the given period. The period must be at least two
// ticks so that both halves of a cycle are non-empty.
func New(period Time, unit Unit) (*Clock, error) {
	if period < 2 {
		return nil, errors.Errorf("clock period must be at least 2 ticks, got %d", period)
	}
	return &Clock{
		period: period,
		unit:   unit,
		high:   period / 2,
	}, nil
}

func (c *Clock) Period() Time { return c.period }
func (c *Clock) Unit() Unit   { return c.unit }

// Level is the clock signal after the most recent edge.
func (c *Clock) Level() bool { return c.level }

// Cycles counts the rising edges emitted so far.
func (c *Clock) Cycles() uint64 { return c.cycle }

// Freq returns the clock frequency in Hz.
func (c *Clock) Freq() float64 {
	return 1 / (float64(c.period) * c.unit.Seconds())
}

// Next advances the clock to its next edge.
func (c *Clock) Next() Event {
	ev := Event{Time: c.next}
	if c.level {
		ev.Edge = Falling
		ev.Cycle = c.cycle - 1
		c.next += c.period - c.high
	} else {
		ev.Edge = Rising
		ev.Cycle = c.cycle
		c.cycle++
		c.next += c.high
	}
	c.level = !c.level
	return ev
}

// Format renders t in the clock's unit, e.g. "130ns".
func (c *Clock) Format(t Time) string {
	return fmt.Sprintf("%d%s", t, c.unit)
}
