package babble

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Result is the outcome of one step.
type Result struct {
	In  EventIn
	Out EventOut
	Err error
}

type job struct {
	e       EventIn
	inspect func(Stepper)
	reply   chan Result
}

// An Agent owns a Stepper and is the only goroutine that ever calls it.
// Events are processed in the order they are sent.
type Agent struct {
	sync.Mutex
	s   Stepper
	enc OutputEncoder

	ctx    context.Context
	queue  chan job
	done   chan struct{}
	closed bool
}

// NewAgent creates an agent with a queue of the given size. enc may be nil.
func NewAgent(s Stepper, enc OutputEncoder, queueSize int) *Agent {
	return &Agent{
		s:     s,
		enc:   enc,
		queue: make(chan job, queueSize),
		done:  make(chan struct{}),
	}
}

// Start starts the worker. It stops when ctx is done or the agent is closed.
func (a *Agent) Start(ctx context.Context) {
	a.Lock()
	a.ctx = ctx
	a.Unlock()
	go a.run(ctx)
}

func (a *Agent) run(ctx context.Context) {
	defer close(a.done)
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-a.queue:
			if !ok {
				return
			}
			if j.inspect != nil {
				j.inspect(a.s)
				close(j.reply)
				continue
			}
			a.step(j)
		}
	}
}

func (a *Agent) step(j job) {
	out, err := a.s.Step(j.e)
	if err == nil && a.enc != nil {
		if t, ok := a.s.(Transcripter); ok {
			if err := a.enc.Encode(t); err != nil {
				log.Printf("Unable to encode output of %v: %v", j.e, err)
			}
		}
	}
	if j.reply != nil {
		j.reply <- Result{In: j.e, Out: out, Err: err}
		return
	}
	if err != nil {
		log.Printf("%v: %v", j.e, err)
	}
}

func (a *Agent) enqueue(j job) error {
	a.Lock()
	defer a.Unlock()
	if a.closed {
		return errors.New("Agent is closed")
	}
	// a buffered queue would otherwise accept jobs that the stopped worker never runs
	select {
	case <-a.done:
		return errors.New("Agent has stopped")
	default:
	}
	if a.ctx != nil && a.ctx.Err() != nil {
		return errors.WithMessage(a.ctx.Err(), "Agent is stopping")
	}
	select {
	case a.queue <- j:
		return nil
	case <-a.done:
		return errors.New("Agent has stopped")
	}
}

// Send queues an event. Its output only goes to the OutputEncoder.
func (a *Agent) Send(e EventIn) error { return a.enqueue(job{e: e}) }

// Do queues an event and waits for its output.
func (a *Agent) Do(e EventIn) (EventOut, error) {
	reply := make(chan Result, 1)
	if err := a.enqueue(job{e: e, reply: reply}); err != nil {
		return Silence(), err
	}
	select {
	case res := <-reply:
		return res.Out, res.Err
	case <-a.done:
		select {
		case res := <-reply:
			return res.Out, res.Err
		default:
		}
		return Silence(), errors.New("Agent stopped before the event was processed")
	}
}

// Inspect runs fn on the worker, in between steps, and waits for it to return.
// It is the only safe way to look at the Stepper while the agent is running.
func (a *Agent) Inspect(fn func(s Stepper)) error {
	reply := make(chan Result)
	if err := a.enqueue(job{inspect: fn, reply: reply}); err != nil {
		return err
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		select {
		case <-reply:
			return nil
		default:
		}
		return errors.New("Agent stopped before the inspection ran")
	}
}

// Close stops accepting events, waits for the queued ones to be processed and flushes the OutputEncoder.
// The agent must have been started.
func (a *Agent) Close() error {
	a.Lock()
	if a.closed {
		a.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.Unlock()

	<-a.done
	if a.enc != nil {
		return a.enc.Flush()
	}
	return nil
}

// Ticker sends a tick to the agent every interval until ctx is done or the agent is closed.
func Ticker(ctx context.Context, interval time.Duration, a *Agent) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := a.Send(Tick()); err != nil {
				return
			}
		}
	}
}
