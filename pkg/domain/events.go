package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep  EventType = "step"
	EventHalt  EventType = "halt"
	EventFault EventType = "fault"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Machine   string    `json:"machine,omitempty"`
}

// StepEvent describes one applied transition.
type StepEvent struct {
	EventBase
	From  StateID   `json:"from"`
	To    StateID   `json:"to"`
	Read  Symbol    `json:"read"`
	Write Symbol    `json:"write"`
	Move  Direction `json:"move"`
	Head  int       `json:"head"`
	Steps int       `json:"steps"`
}

// HaltEvent is emitted when a step enters Accept or Reject.
type HaltEvent struct {
	EventBase
	State StateID `json:"state"`
	Steps int     `json:"steps"`
}

// FaultEvent is emitted when Step hits a configuration error.
type FaultEvent struct {
	EventBase
	Err *ConfigError `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStep  func(context.Context, *StepEvent)
	OnHalt  func(context.Context, *HaltEvent)
	OnFault func(context.Context, *FaultEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStep:  chain(h.OnStep, other.OnStep),
		OnHalt:  chain(h.OnHalt, other.OnHalt),
		OnFault: chain(h.OnFault, other.OnFault),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
