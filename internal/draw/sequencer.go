package draw

import (
	"time"

	"github.com/yiblet/omikuji/internal/haptics"
)

// Phase is the visible stage of a draw.
type Phase int

const (
	Idle Phase = iota
	Shaking
	Revealing
)

func (p Phase) String() string {
	switch p {
	case Shaking:
		return "shaking"
	case Revealing:
		return "revealing"
	default:
		return "idle"
	}
}

// Default delays between the phases of a draw.
const (
	DefaultShakeDelay  = 1500 * time.Millisecond
	DefaultRevealDelay = 1000 * time.Millisecond
)

// Scheduler runs fn after d has elapsed. Implementations must call fn on
// the same goroutine that drives the Sequencer.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// ImmediateScheduler runs every callback at once, skipping the delays.
type ImmediateScheduler struct{}

func (ImmediateScheduler) After(_ time.Duration, fn func()) { fn() }

// Timing holds the phase delays.
type Timing struct {
	Shake  time.Duration
	Reveal time.Duration
}

// DefaultTiming returns the standard delays.
func DefaultTiming() Timing {
	return Timing{Shake: DefaultShakeDelay, Reveal: DefaultRevealDelay}
}

// Hooks are notified on every transition. Nil hooks are skipped.
type Hooks struct {
	OnShake  func()
	OnReveal func(Result)
	OnIdle   func()
	OnError  func(error)
}

// Sequencer walks one draw through Idle -> Shaking -> Revealing -> Idle.
// While a draw is in flight, further triggers are ignored rather than
// queued; a started draw cannot be cancelled.
type Sequencer struct {
	phase   Phase
	sched   Scheduler
	timing  Timing
	hooks   Hooks
	haptics haptics.Bridge
}

// NewSequencer creates an idle sequencer. The haptics bridge may be nil.
func NewSequencer(sched Scheduler, timing Timing, hooks Hooks, bridge haptics.Bridge) *Sequencer {
	if sched == nil {
		sched = ImmediateScheduler{}
	}
	return &Sequencer{
		phase:   Idle,
		sched:   sched,
		timing:  timing,
		hooks:   hooks,
		haptics: bridge,
	}
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase {
	return s.phase
}

// Busy reports whether a draw is in flight.
func (s *Sequencer) Busy() bool {
	return s.phase != Idle
}

// Trigger starts a draw. It returns false, doing nothing, when a draw is
// already in flight. The outcome is computed by fn once the shake delay
// has elapsed; a failed outcome releases the guard immediately.
func (s *Sequencer) Trigger(fn func() (Result, error)) bool {
	if s.phase != Idle {
		return false
	}

	s.phase = Shaking
	haptics.Fire(s.haptics, haptics.StartMillis)
	if s.hooks.OnShake != nil {
		s.hooks.OnShake()
	}

	if s.haptics != nil && s.timing.Shake > 0 {
		s.sched.After(s.timing.Shake/2, func() {
			if s.phase == Shaking {
				haptics.Fire(s.haptics, haptics.ShakeMillis)
			}
		})
	}

	s.sched.After(s.timing.Shake, func() {
		result, err := fn()
		if err != nil {
			s.phase = Idle
			if s.hooks.OnError != nil {
				s.hooks.OnError(err)
			}
			return
		}

		s.phase = Revealing
		haptics.Fire(s.haptics, haptics.RevealMillis)
		if s.hooks.OnReveal != nil {
			s.hooks.OnReveal(result)
		}

		s.sched.After(s.timing.Reveal, func() {
			s.phase = Idle
			if s.hooks.OnIdle != nil {
				s.hooks.OnIdle()
			}
		})
	})

	return true
}
