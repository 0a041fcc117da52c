package layer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorgonia.org/tensor"
)

func TestSequential(t *testing.T) {
	assert := assert.New(t)
	split, _ := NewSplit(4, 2)
	concat, _ := NewConcatN(2, 2)

	if _, err := Sequential(NewPassThrough(4), NewRectify(3)); err == nil {
		t.Error("Expected mismatched lengths to be rejected")
	}
	if _, err := Sequential(split, NewRectify(2)); err == nil {
		t.Error("Expected a layer with two outputs to be rejected as the layer above")
	}
	if _, err := Sequential(NewPassThrough(4), concat); err == nil {
		t.Error("Expected a layer with two inputs to be rejected as the layer below")
	}

	l, err := Sequential(NewPassThrough(3), NewRectify(3))
	if err != nil {
		t.Fatal(err)
	}
	ys, err := l.Fwd([]float32{-1, 1, -2})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal([]float32{0, 1, 0}, ys[0])
}

func TestSideBySide(t *testing.T) {
	assert := assert.New(t)
	r := rand.New(rand.NewSource(1337))
	l, err := SideBySide(NewPassThrough(3), NewNoise(2, r))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(Shape{3}, l.Inputs())
	assert.Equal(Shape{5}, l.Outputs())

	ys, err := l.Fwd([]float32{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal([]float32{1, 2, 3}, ys[0][:3])
	assert.Len(ys[0], 5)

	both, err := SideBySide(NewPassThrough(1), NewRectify(2))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(Shape{1, 2}, both.Inputs())
	ys, err = both.Fwd([]float32{-1}, []float32{-1, 4})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal([]float32{-1, 0, 4}, ys[0])

	split, _ := NewSplit(2, 1)
	if _, err := SideBySide(split, NewPassThrough(1)); err == nil {
		t.Error("Expected a side with two outputs to be rejected")
	}
}

// accumulator returns a recurrent layer whose output is its input,
// and whose memory is the rectified running sum of its inputs.
func accumulator(t *testing.T) *Recurrent {
	weights := tensor.New(tensor.WithShape(2, 3), tensor.WithBacking([]float32{
		1, 0, 0, // output = x
		1, 1, 0, // memory = x + memory
	}))
	inner, err := newAffine(2, 2, weights)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	l, err := NewRecurrent(inner, 1)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	return l
}

func TestRecurrent(t *testing.T) {
	assert := assert.New(t)
	l := accumulator(t)
	defer Close(l)

	assert.Equal(Shape{1}, l.Inputs())
	assert.Equal(Shape{1}, l.Outputs())
	assert.Equal([]float32{0}, l.Memory(), "memory starts zeroed")

	steps := []struct {
		x, out, mem float32
	}{
		{2, 2, 2},
		{1, 1, 3},
		{-5, -5, 0}, // clamped
		{3, 3, 3},
	}
	for i, s := range steps {
		ys, err := l.Fwd([]float32{s.x})
		if err != nil {
			t.Fatal(err)
		}
		assert.InDelta(s.out, ys[0][0], 1e-6, "step %d output", i)
		assert.InDeltaSlice([]float32{s.mem}, l.Memory(), 1e-6, "step %d memory", i)
	}

	l.Reset()
	assert.Equal([]float32{0}, l.Memory())

	// Memory returns a copy
	m := l.Memory()
	m[0] = 100
	assert.Equal([]float32{0}, l.Memory())
}

func TestRecurrentConstruction(t *testing.T) {
	if _, err := NewRecurrent(NewPassThrough(4), 0); err == nil {
		t.Error("Expected a memory of 0 to be rejected")
	}
	if _, err := NewRecurrent(NewPassThrough(4), 5); err == nil {
		t.Error("Expected a memory wider than the inner layer to be rejected")
	}
	concat, _ := NewConcatN(2, 2)
	if _, err := NewRecurrent(concat, 1); err == nil {
		t.Error("Expected an inner layer with two inputs to be rejected")
	}
	l, err := NewRecurrent(NewPassThrough(4), 4)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, Shape{0}, l.Inputs())
}
