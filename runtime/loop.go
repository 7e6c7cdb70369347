package runtime

import (
	"context"
	"log/slog"
)

// Loop is the single event-loop goroutine of the subsystem. Channel events,
// fetch completions, and debounce fires are all posted here as transitions;
// interleaving replaces locking for every structure the loop owns.
type Loop struct {
	log         *slog.Logger
	transitions chan func()

	// afterTransition, when set, runs on the loop after each transition.
	// The terminal client uses it as its re-render hook: it fires for
	// channel events, fetch completions, and debounce results alike.
	afterTransition func()
}

func NewLoop(log *slog.Logger, bufferSize int) *Loop {
	return &Loop{
		log:         log,
		transitions: make(chan func(), bufferSize),
	}
}

// Post enqueues a transition. Posting never blocks the caller: when the
// queue is full the transition is dropped with a warning, mirroring how the
// channel treats backpressure on outbound commands.
func (l *Loop) Post(fn func()) {
	select {
	case l.transitions <- fn:
	default:
		l.log.Warn("Transition queue full, dropping transition")
	}
}

// Run consumes transitions until the context ends. It implements
// contract.Worker so the supervisor restarts it after a panicking
// transition; the queue and all component state survive the restart.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.transitions:
			fn()
			if l.afterTransition != nil {
				l.afterTransition()
			}
		}
	}
}

// SetAfterTransition registers the post-transition callback. Must be set
// before the loop starts.
func (l *Loop) SetAfterTransition(fn func()) {
	l.afterTransition = fn
}
