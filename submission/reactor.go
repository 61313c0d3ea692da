package submission

import (
	"sync"

	"go.uber.org/zap"
)

// SuccessMessage is shown to the user when a booking goes through.
const SuccessMessage = "Appointment booked successfully!"

// Notifier surfaces a message to the user.
type Notifier interface {
	Notify(message string)
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(message string) {
	if n.Logger == nil {
		return
	}
	n.Logger.Info(message)
}

// Reactor fires the success side effects of an attempt exactly once.
type Reactor struct {
	notifier   Notifier
	onComplete func()

	mu      sync.Mutex
	handled map[string]struct{}
}

// NewReactor returns a Reactor that notifies through n and then calls
// onComplete. onComplete may be nil.
func NewReactor(n Notifier, onComplete func()) *Reactor {
	return &Reactor{
		notifier:   n,
		onComplete: onComplete,
		handled:    make(map[string]struct{}),
	}
}

// Attach subscribes the reactor to every transition of c.
func (r *Reactor) Attach(c *Client) {
	c.OnTransition(func(o Outcome) { r.Observe(o) })
}

// Observe handles one outcome and reports whether side effects fired. Only the
// first successful outcome of an attempt fires; anything else is ignored.
func (r *Reactor) Observe(o Outcome) bool {
	if o.State != StateSucceeded || o.Result == nil || !o.Result.Success {
		return false
	}

	r.mu.Lock()
	if _, done := r.handled[o.AttemptID]; done {
		r.mu.Unlock()
		return false
	}
	r.handled[o.AttemptID] = struct{}{}
	r.mu.Unlock()

	if r.notifier != nil {
		r.notifier.Notify(SuccessMessage)
	}
	if r.onComplete != nil {
		r.onComplete()
	}
	return true
}
