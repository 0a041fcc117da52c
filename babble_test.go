package babble

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func testBrain(t *testing.T, seed int64) *Brain {
	conf := DefaultConfig()
	conf.Seed = seed
	b, err := NewBrain(conf)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	return b
}

func TestBrainStep(t *testing.T) {
	assert := assert.New(t)
	b := testBrain(t, 1337)
	defer b.Close()

	out, err := b.Step(Char('a'))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	switch out.Kind {
	case OutCharacter:
		assert.True(out.Char >= 0 && out.Char < 256, "%v is not a single byte character", out)
	case Nothing:
	default:
		t.Errorf("Unexpected output %v", out)
	}

	mem := b.Memory()
	assert.Len(mem, 16)
	for _, v := range mem {
		assert.True(v >= 0, "memory must be non-negative. Got %v", mem)
	}

	if assert.Len(b.InputLog(), 1) {
		x, _ := Encode(Char('a'))
		assert.Equal(x, b.InputLog()[0])
	}
	if assert.Len(b.OutputLog(), 1) {
		p := b.OutputLog()[0]
		assert.Len(p, InputWidth)
		assert.True(ValidDistribution(p))
		var sum float32
		for _, v := range p {
			sum += v
		}
		assert.InDelta(1, sum, 1e-4)

		decoded, _ := Decode(p)
		assert.Equal(out, decoded)
	}
	assert.Equal(out, b.LastOutput())
	assert.Equal(Char('a'), b.LastInput())
}

func TestBrainMemoryDependsOnlyOnHistory(t *testing.T) {
	a := testBrain(t, 42)
	defer a.Close()
	b := testBrain(t, 42)
	defer b.Close()

	if _, err := a.Step(Char('h')); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Step(Char('h')); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.Memory(), b.Memory()); diff != "" {
		t.Errorf("Memory after the shared first step differs (-a +b):\n%s", diff)
	}

	// the sequences diverge from here on
	for _, c := range "ello" {
		if _, err := a.Step(Char(c)); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 4; i++ {
		if _, err := b.Step(Tick()); err != nil {
			t.Fatal(err)
		}
	}
	assert.Len(t, a.Memory(), 16)
	assert.Len(t, b.Memory(), 16)
}

func TestBrainLongRun(t *testing.T) {
	assert := assert.New(t)
	b := testBrain(t, 1337)
	defer b.Close()

	var diverged bool
	for i := 0; i < 300; i++ {
		out, err := b.Step(Tick())
		for _, v := range b.Memory() {
			if !(v >= 0) {
				t.Fatalf("Step %d: memory must be non-negative. Got %v", i, b.Memory())
			}
		}
		if err != nil {
			if errors.Cause(err) != ErrDiverged {
				t.Fatalf("Step %d: %+v", i, err)
			}
			assert.True(out.IsNothing())
			diverged = true
			continue
		}
		p := b.OutputLog()[len(b.OutputLog())-1]
		if !ValidDistribution(p) {
			t.Fatalf("Step %d: %v", i, p)
		}
	}
	assert.Equal(b.Steps, len(b.InputLog()), "only successful steps are logged")
	assert.Equal(b.Steps, len(b.OutputLog()))

	if diverged {
		b.Reset()
		if _, err := b.Step(Tick()); err != nil {
			t.Errorf("Expected a reset brain to step again. Got %+v", err)
		}
	}
}

func TestBrainRejects(t *testing.T) {
	assert := assert.New(t)
	b := testBrain(t, 1)
	defer b.Close()
	if _, err := b.Step(Char('x')); err != nil {
		t.Fatal(err)
	}
	mem := b.Memory()

	out, err := b.Step(Char('λ'))
	assert.Error(err)
	assert.Equal(ErrUnencodable, errors.Cause(err))
	assert.True(out.IsNothing())

	assert.Len(b.InputLog(), 1, "rejected events are not logged")
	assert.Len(b.OutputLog(), 1)
	assert.Equal(mem, b.Memory(), "rejected events leave the memory untouched")
	assert.Equal(1, b.Rejected)
	assert.Equal(1, b.Steps)
}

func TestBrainFeedbackPanics(t *testing.T) {
	b := testBrain(t, 1)
	defer b.Close()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected Feedback to panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("Expected Feedback to panic with an error. Got %v", r)
		}
		if errors.Cause(err) != ErrNotImplemented {
			t.Errorf("Expected ErrNotImplemented. Got %v", err)
		}
	}()
	b.Feedback(1)
}

func TestNewBrainInvalid(t *testing.T) {
	conf := DefaultConfig()
	conf.LayerConf.MemoryWidth = 64 // hidden width still sized for 16
	if _, err := NewBrain(conf); err == nil {
		t.Error("Expected an inconsistent memory width to be rejected")
	}
	assert.Panics(t, func() { New(conf) })

	conf = DefaultConfig()
	conf.LayerConf.ExternalWidth = 10
	conf.LayerConf.HiddenWidth = 26
	if _, err := NewBrain(conf); err == nil {
		t.Error("Expected an external width that differs from the encoding to be rejected")
	}
}

func TestBrainTranscriptAndStats(t *testing.T) {
	assert := assert.New(t)
	b := testBrain(t, 7)
	defer b.Close()

	var said []rune
	for _, e := range []EventIn{Char('h'), Char('i'), Tick(), Char('\n'), Tick(), Tick()} {
		out, err := b.Step(e)
		if err != nil {
			t.Fatal(err)
		}
		if !out.IsNothing() {
			said = append(said, out.Char)
		}
	}
	s := b.Stats()
	assert.Equal(6, s.Steps)
	assert.Equal(3, s.Characters)
	assert.Equal(3, s.Ticks)
	assert.Equal(6, s.Said+s.Silent)
	assert.Equal(string(said), b.Transcript())
	assert.Equal(len(said), utf8.RuneCountInString(b.Transcript()))
	assert.Equal(6, b.StepNumber())

	var total int
	for _, v := range s.Spoken {
		total += v
	}
	assert.Equal(s.Said, total)

	filename := filepath.Join(t.TempDir(), "stats.csv")
	if err := b.Dump(filename); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(strings.HasPrefix(string(data), "steps,characters,ticks,rejected,said,silent\n6,3,3,0,"), "%s", data)
}

func TestBrainReset(t *testing.T) {
	b := testBrain(t, 3)
	defer b.Close()
	for i := 0; i < 3; i++ {
		if _, err := b.Step(Tick()); err != nil {
			t.Fatal(err)
		}
	}
	b.Reset()
	assert.Equal(t, make([]float32, 16), b.Memory())
	assert.Len(t, b.InputLog(), 3, "logs survive a reset")
}

func TestBrainLog(t *testing.T) {
	b := testBrain(t, 3)
	defer b.Close()
	if _, err := b.Step(Char('q')); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	b.Log(&buf)
	if !strings.Contains(buf.String(), "Step 1: ChatCharacter('q')") {
		t.Errorf("Expected the log to mention the step. Got\n%v", buf.String())
	}
	if !strings.Contains(b.ToDot(), "Recurrent") {
		t.Error("Expected the topology to mention the recurrent wrapper")
	}
}
