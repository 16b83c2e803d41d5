package directive

import (
	"github.com/sirupsen/logrus"
)

// EventKind classifies a diagnostic event.
type EventKind int

const (
	EventStart    EventKind = iota // resolver about to run
	EventResolved                  // resolver returned replacement text
	EventFailed                    // resolver returned an error
	EventUnknown                   // no resolver registered for the command
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventResolved:
		return "resolved"
	case EventFailed:
		return "failed"
	case EventUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Event is emitted by the engine for each step of processing a directive.
type Event struct {
	Kind      EventKind
	Directive Directive
	// Err is set for EventFailed and EventUnknown.
	Err error
}

// Observer receives engine events.
type Observer interface {
	Observe(Event)
}

type discard struct{}

func (discard) Observe(Event) {}

// LogObserver writes events to a logrus logger.
type LogObserver struct {
	Logger logrus.FieldLogger
}

// Observe logs e at a level matching its kind.
func (o LogObserver) Observe(e Event) {
	entry := o.Logger.WithFields(logrus.Fields{
		"command":  e.Directive.Command,
		"argument": e.Directive.Argument,
	})
	switch e.Kind {
	case EventStart:
		entry.Debug("resolving directive")
	case EventResolved:
		entry.Info("directive resolved")
	case EventFailed:
		entry.WithError(e.Err).Warn("failed to resolve directive")
	case EventUnknown:
		entry.Warn("unknown command")
	}
}

// Recorder keeps every event it observes, in order.
type Recorder struct {
	Events []Event
}

// Observe appends e.
func (r *Recorder) Observe(e Event) {
	r.Events = append(r.Events, e)
}

// Count returns the number of recorded events of the given kind.
func (r *Recorder) Count(kind EventKind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
