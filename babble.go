// Package babble is a forward-only recurrent brain that chats one character at a time.
//
// A Brain encodes each incoming event (a character or a timer tick) as a one-hot vector, runs it
// through a fixed graph of layers that carries a memory from one call to the next, normalizes the
// result into a distribution and decodes the most likely slot back into a character, or Nothing.
//
// A Brain must be driven by one caller at a time. An Agent provides that: a single worker that
// serializes events from any number of producers.
package babble

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/gorgonia/babble/layer"
	"github.com/pkg/errors"
)

// Brain is the top level structure and the entry point of the API.
// It owns the layer graph and the memory threaded through it.
type Brain struct {
	// state
	Statistics
	root *layer.Recurrent

	// config
	conf Config

	// logs. These grow without bound.
	inputs     [][]float32
	outputs    [][]float32
	transcript []rune
	lastIn     EventIn
	lastOut    EventOut

	buf    bytes.Buffer
	logger *log.Logger
}

// New creates a brain. It panics if the configuration is invalid or the topology cannot be built.
func New(conf Config) *Brain {
	b, err := NewBrain(conf)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return b
}

// NewBrain creates a brain, returning an error if the configuration is invalid or the topology cannot be built.
func NewBrain(conf Config) (*Brain, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("Config %+v is not valid. Unable to proceed", conf)
	}
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	root, err := layer.Build(conf.LayerConf, r)
	if err != nil {
		return nil, errors.WithMessage(err, "Unable to build the brain")
	}

	retVal := &Brain{
		Statistics: makeStatistics(),
		root:       root,
		conf:       conf,
		lastOut:    Silence(),
	}
	retVal.logger = log.New(&retVal.buf, "", log.Ltime)
	retVal.logger.Printf("Created %q with seed %d", conf.Name, seed)
	return retVal, nil
}

// Step processes one event and returns the brain's answer.
//
// An event that cannot be encoded is rejected: it is not logged and the memory is left untouched.
// Once the memory has grown past what float32 can hold, Step returns ErrDiverged until the brain is Reset.
func (b *Brain) Step(e EventIn) (EventOut, error) {
	x, err := Encode(e)
	if err != nil {
		b.reject()
		b.logger.Printf("Rejected %v", e)
		return Silence(), err
	}

	ys, err := b.root.Fwd(x)
	if err != nil {
		return Silence(), errors.WithMessage(err, "Forward pass failed")
	}
	p := Softmax(ys[0])
	if !finite(ys[0]) || !ValidDistribution(p) {
		b.logger.Printf("Diverged at %v after step %d", e, b.Steps)
		return Silence(), errors.Wrapf(ErrDiverged, "output of %v after step %d", e, b.Steps)
	}

	out, err := Decode(p)
	if err != nil {
		return Silence(), err
	}
	b.inputs = append(b.inputs, x)
	b.outputs = append(b.outputs, p)
	if !out.IsNothing() {
		b.transcript = append(b.transcript, out.Char)
	}
	b.lastIn, b.lastOut = e, out
	b.update(e, out)
	b.logger.Printf("Step %d: %v -> %v", b.Steps, e, out)
	return out, nil
}

// Feedback would reward (or punish, if negative) the brain for its recent output.
// There is no learning algorithm, so it panics with ErrNotImplemented.
func (b *Brain) Feedback(reward float32) {
	panic(errors.Wrapf(ErrNotImplemented, "feedback of %v", reward))
}

// Reset zeroes the memory. The logs are kept.
func (b *Brain) Reset() {
	b.root.Reset()
	b.logger.Printf("Memory reset at step %d", b.Steps)
}

// Memory returns a copy of the recurrent memory.
func (b *Brain) Memory() []float32 { return b.root.Memory() }

// InputLog returns every encoded input seen so far. The returned vectors must not be modified.
func (b *Brain) InputLog() [][]float32 { return b.inputs }

// OutputLog returns every normalized output produced so far. The returned vectors must not be modified.
func (b *Brain) OutputLog() [][]float32 { return b.outputs }

func (b *Brain) Name() string         { return b.conf.Name }
func (b *Brain) StepNumber() int      { return b.Steps }
func (b *Brain) Transcript() string   { return string(b.transcript) }
func (b *Brain) LastOutput() EventOut { return b.lastOut }
func (b *Brain) LastInput() EventIn   { return b.lastIn }
func (b *Brain) Config() Config       { return b.conf }

// ToDot returns the topology of the brain as a graphviz graph.
func (b *Brain) ToDot() string { return layer.ToDot(b.root) }

// ExecLog returns the execution log of the last step. It is empty unless the brain was configured with Trace.
func (b *Brain) ExecLog() string { return layer.ExecLog(b.root) }

// Log writes the step log, followed by the execution log.
func (b *Brain) Log(w io.Writer) {
	fmt.Fprint(w, b.buf.String())
	if el := b.ExecLog(); el != "" {
		fmt.Fprintln(w, "\nExecution:")
		fmt.Fprintln(w, el)
	}
}

// Close releases the resources held by the layers.
func (b *Brain) Close() error { return layer.Close(b.root) }
