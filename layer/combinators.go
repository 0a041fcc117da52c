package layer

import (
	"fmt"

	"github.com/pkg/errors"
)

// Seq feeds the single output of one layer into the single input of another.
type Seq struct {
	above, below Layer
}

// Sequential composes above and below. above must have exactly one output, below must have
// exactly one input, and their lengths must agree.
func Sequential(above, below Layer) (*Seq, error) {
	out, err := single(above, above.Outputs(), "output")
	if err != nil {
		return nil, err
	}
	in, err := single(below, below.Inputs(), "input")
	if err != nil {
		return nil, err
	}
	if out != in {
		return nil, errors.Errorf("Cannot feed %v (output length %d) into %v (input length %d)", above, out, below, in)
	}
	return &Seq{above: above, below: below}, nil
}

func (l *Seq) Inputs() Shape  { return l.above.Inputs() }
func (l *Seq) Outputs() Shape { return l.below.Outputs() }
func (l *Seq) String() string { return "Sequential" }

func (l *Seq) Fwd(xs ...[]float32) ([][]float32, error) {
	if err := checkInputs(l, xs); err != nil {
		return nil, err
	}
	ys, err := l.above.Fwd(xs...)
	if err != nil {
		return nil, err
	}
	return l.below.Fwd(ys...)
}

// Side runs two layers independently and concatenates their outputs.
type Side struct {
	left, right Layer
	concat      *Concat
}

// SideBySide composes left and right side by side. The inputs of the result are the inputs of
// left followed by the inputs of right. Both must have exactly one output.
func SideBySide(left, right Layer) (*Side, error) {
	lout, err := single(left, left.Outputs(), "output")
	if err != nil {
		return nil, err
	}
	rout, err := single(right, right.Outputs(), "output")
	if err != nil {
		return nil, err
	}
	return &Side{
		left:   left,
		right:  right,
		concat: NewConcat(Shape{lout, rout}),
	}, nil
}

func (l *Side) Inputs() Shape  { return append(l.left.Inputs().Clone(), l.right.Inputs()...) }
func (l *Side) Outputs() Shape { return l.concat.Outputs() }
func (l *Side) String() string { return "SideBySide" }

func (l *Side) Fwd(xs ...[]float32) ([][]float32, error) {
	if err := checkInputs(l, xs); err != nil {
		return nil, err
	}
	arity := len(l.left.Inputs())
	left, err := l.left.Fwd(xs[:arity]...)
	if err != nil {
		return nil, err
	}
	right, err := l.right.Fwd(xs[arity:]...)
	if err != nil {
		return nil, err
	}
	return l.concat.Fwd(left[0], right[0])
}

// Recurrent threads a memory vector through an inner layer across calls.
//
// On every call the input is joined with the memory and fed to the inner layer. The inner
// layer's output is split: the head is returned, the tail is rectified and becomes the new memory.
type Recurrent struct {
	inner    Layer
	in, out  int
	concat   *Concat
	split    *Split
	rectify  *Rectify
	memory   []float32
	memWidth int
}

// NewRecurrent wraps inner with a memory of the given width. inner must take a single input
// that is at least width long, and produce a single output that is at least width long.
func NewRecurrent(inner Layer, width int) (*Recurrent, error) {
	if width < 1 {
		return nil, errors.Errorf("Recurrent memory width must be positive. Got %d", width)
	}
	in, err := single(inner, inner.Inputs(), "input")
	if err != nil {
		return nil, err
	}
	out, err := single(inner, inner.Outputs(), "output")
	if err != nil {
		return nil, err
	}
	if in < width {
		return nil, errors.Errorf("%v takes vectors of length %d, which cannot hold a memory of %d", inner, in, width)
	}
	if out < width {
		return nil, errors.Errorf("%v produces vectors of length %d, which cannot hold a memory of %d", inner, out, width)
	}
	split, err := NewSplit(out, out-width)
	if err != nil {
		return nil, err
	}
	return &Recurrent{
		inner:    inner,
		in:       in - width,
		out:      out - width,
		concat:   NewConcat(Shape{in - width, width}),
		split:    split,
		rectify:  NewRectify(width),
		memory:   make([]float32, width),
		memWidth: width,
	}, nil
}

func (l *Recurrent) Inputs() Shape  { return Shape{l.in} }
func (l *Recurrent) Outputs() Shape { return Shape{l.out} }
func (l *Recurrent) String() string { return fmt.Sprintf("Recurrent(memory %d)", l.memWidth) }

func (l *Recurrent) Fwd(xs ...[]float32) ([][]float32, error) {
	if err := checkInputs(l, xs); err != nil {
		return nil, err
	}
	joined, err := l.concat.Fwd(xs[0], l.memory)
	if err != nil {
		return nil, err
	}
	ys, err := l.inner.Fwd(joined...)
	if err != nil {
		return nil, err
	}
	parts, err := l.split.Fwd(ys...)
	if err != nil {
		return nil, err
	}
	mem, err := l.rectify.Fwd(parts[1])
	if err != nil {
		return nil, err
	}
	l.memory = mem[0]
	return parts[:1], nil
}

// Memory returns a copy of the current memory.
func (l *Recurrent) Memory() []float32 {
	retVal := make([]float32, len(l.memory))
	copy(retVal, l.memory)
	return retVal
}

// MemoryWidth is the length of the memory vector.
func (l *Recurrent) MemoryWidth() int { return l.memWidth }

// Reset zeroes the memory.
func (l *Recurrent) Reset() {
	for i := range l.memory {
		l.memory[i] = 0
	}
}
