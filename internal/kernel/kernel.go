// Package kernel is a minimal cycle-based simulation kernel.
//
// The kernel owns a clock, a set of nets and the synchronous units attached
// to them. Time only moves when a caller asks for the next rising edge: the
// kernel pulls edges from the clock and lets every unit react to each one, in
// attach order, on the caller's goroutine. Runs are therefore deterministic
// and need no locking.
package kernel

import (
	"context"
	"log/slog"

	"github.com/dsatizabal/pid-controller/internal/clock"
)

// Unit is a synchronous block evaluated on clock edges. Units sample their
// input nets and drive their output nets from inside OnEdge.
type Unit interface {
	Name() string
	OnEdge(ev clock.Event)
}

type Kernel struct {
	clk    *clock.Clock
	units  []Unit
	nets   []*Net
	now    clock.Time
	last   clock.Event
	logger *slog.Logger
}

func New(clk *clock.Clock, logger *slog.Logger) *Kernel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Kernel{
		clk:    clk,
		units:  make([]Unit, 0),
		logger: logger,
	}
}

func (k *Kernel) Attach(u Unit) { k.units = append(k.units, u) }

// AddNet registers a net. Registered nets are sampled into the debug log on
// every rising edge.
func (k *Kernel) AddNet(n *Net) *Net {
	k.nets = append(k.nets, n)
	return n
}

func (k *Kernel) Clock() *clock.Clock { return k.clk }
func (k *Kernel) Now() clock.Time     { return k.now }

// Cycles counts rising edges processed so far.
func (k *Kernel) Cycles() uint64 { return k.clk.Cycles() }

// Step processes exactly one clock edge.
func (k *Kernel) Step() clock.Event {
	ev := k.clk.Next()
	k.now = ev.Time
	for _, u := range k.units {
		u.OnEdge(ev)
	}
	k.last = ev
	return ev
}

// AwaitRising advances the simulation through the next rising edge and
// returns it. Units have already reacted to the edge when it returns.
func (k *Kernel) AwaitRising(ctx context.Context) (clock.Event, error) {
	for {
		select {
		case <-ctx.Done():
			return k.last, ctx.Err()
		default:
		}

		ev := k.Step()
		if ev.Edge == clock.Rising {
			if k.logger.Enabled(ctx, slog.LevelDebug) {
				attrs := make([]any, 0, 2*len(k.nets)+4)
				attrs = append(attrs, "time", k.clk.Format(ev.Time), "cycle", ev.Cycle)
				for _, n := range k.nets {
					attrs = append(attrs, n.Name(), n.Value())
				}
				k.logger.Debug("rising edge", attrs...)
			}
			return ev, nil
		}
	}
}
