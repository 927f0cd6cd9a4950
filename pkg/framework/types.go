// Package framework provides the small runtime the mapper is built
// on: Runnables executed by a Runner, and a fixed-interval control
// Loop delivering telemetry messages to staged controllers.
package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Message is any value posted to the loop to be consumed by the
// next iteration. Telemetry updates are posted as-is.
type Message interface{}

// Controller defines the controlling logic run every iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// Stage orders controllers within one iteration.
type Stage int

// Iteration stages, in execution order.
const (
	// StageSense ingests raw input into messages.
	StageSense Stage = iota
	// StageFilter consumes telemetry and updates estimates.
	StageFilter
	// StageActuate sends commands back to the hardware.
	StageActuate
	// StageReport publishes state to the outside.
	StageReport

	numStages
)

// ControlContext provides the context of the current iteration.
type ControlContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Time is the start time of this iteration.
	Time() time.Time
	// Stage is the stage currently executing.
	Stage() Stage
	// Messages are all messages collected before this iteration.
	Messages() []Message

	LoopControl
}

// LoopControl exposes access to the controlling loop.
type LoopControl interface {
	// PostMessage enqueues a message for the next iteration.
	PostMessage(Message)
	// TriggerNext schedules the next iteration to be executed
	// without waiting for the interval timer.
	TriggerNext()
}

// LoopAdder provides specific logic to add components to a loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}
