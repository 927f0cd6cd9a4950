package framework

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Loop runs staged controllers at a fixed interval and hands each
// iteration the messages posted since the previous one.
type Loop struct {
	Interval time.Duration

	stages  [numStages][]Controller
	runners []Runnable

	lock    sync.Mutex
	pending []Message

	wakeUpCh chan struct{}
}

type ctxKey struct{}

var loopCtxKey ctxKey

// WithLoopControl attaches a LoopControl to a context.
func WithLoopControl(ctx context.Context, lc LoopControl) context.Context {
	return context.WithValue(ctx, loopCtxKey, lc)
}

// LoopCtlFrom gets the LoopControl from a context.
// It panics when the context is not from a Loop.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey).(LoopControl)
}

// NewLoop creates a Loop with the default interval.
func NewLoop() *Loop {
	return &Loop{
		Interval: 100 * time.Millisecond,
		wakeUpCh: make(chan struct{}, 1),
	}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at a stage. Controllers that
// are also Runnable get spawned for the duration of the loop.
func (l *Loop) AddController(stage Stage, ctls ...Controller) *Loop {
	l.stages[stage] = append(l.stages[stage], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementations.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.pending = append(l.pending, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}

	runner := NewRunnerWith(WithLoopControl(ctx, l))
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval == 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.runIteration(ctx)
		case <-l.wakeUpCh:
			l.runIteration(ctx)
		}
	}
}

// RunOrFail is intended to be used in main to simply run the loop.
func (l *Loop) RunOrFail() {
	if err := l.Run(context.Background()); err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}

func (l *Loop) runIteration(ctx context.Context) {
	iter := &iteration{loop: l, time: time.Now()}
	l.lock.Lock()
	iter.messages, l.pending = l.pending, nil
	l.lock.Unlock()
	iter.ctx = WithLoopControl(ctx, iter)
	for s := Stage(0); s < numStages; s++ {
		iter.stage = s
		for _, ctl := range l.stages[s] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error at stage %d: %v", s, err)
			}
		}
	}
}

// iteration implements ControlContext for one loop pass.
type iteration struct {
	loop     *Loop
	ctx      context.Context
	time     time.Time
	stage    Stage
	messages []Message
}

func (t *iteration) Context() context.Context { return t.ctx }
func (t *iteration) Time() time.Time          { return t.time }
func (t *iteration) Stage() Stage             { return t.stage }
func (t *iteration) Messages() []Message      { return t.messages }
func (t *iteration) PostMessage(msg Message)  { t.loop.PostMessage(msg) }
func (t *iteration) TriggerNext()             { t.loop.TriggerNext() }
