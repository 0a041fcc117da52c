package layer

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/vecf32"
)

// Rectify clamps every element to be non-negative. NaN becomes 0.
type Rectify struct {
	n     int
	zeros []float32
}

func NewRectify(n int) *Rectify {
	return &Rectify{n: n, zeros: make([]float32, n)}
}

func (l *Rectify) Inputs() Shape  { return Shape{l.n} }
func (l *Rectify) Outputs() Shape { return Shape{l.n} }
func (l *Rectify) String() string { return fmt.Sprintf("Rectify(%d)", l.n) }

func (l *Rectify) Fwd(xs ...[]float32) ([][]float32, error) {
	if err := checkInputs(l, xs); err != nil {
		return nil, err
	}
	retVal := make([]float32, l.n)
	copy(retVal, xs[0])
	vecf32.Max(retVal, l.zeros)
	for i, v := range retVal {
		if math32.IsNaN(v) {
			retVal[i] = 0
		}
	}
	return [][]float32{retVal}, nil
}

// ConcatN concatenates N vectors of the same length, in argument order.
type ConcatN struct {
	n, l int
}

// NewConcatN creates a concatenation of n vectors of length l.
func NewConcatN(n, l int) (*ConcatN, error) {
	if n < 1 {
		return nil, errors.Errorf("ConcatN needs at least one input. Got %d", n)
	}
	if l < 0 {
		return nil, errors.Errorf("ConcatN cannot take vectors of length %d", l)
	}
	return &ConcatN{n: n, l: l}, nil
}

// ConcatNOf creates a ConcatN for the given shape. It fails if the lengths differ.
func ConcatNOf(s Shape) (*ConcatN, error) {
	if len(s) == 0 {
		return nil, errors.New("ConcatN needs at least one input")
	}
	for i, v := range s {
		if v != s[0] {
			return nil, errors.Errorf("ConcatN requires inputs of equal length. Input %d has length %d, expected %d", i, v, s[0])
		}
	}
	return NewConcatN(len(s), s[0])
}

func (l *ConcatN) Inputs() Shape {
	retVal := make(Shape, l.n)
	for i := range retVal {
		retVal[i] = l.l
	}
	return retVal
}

func (l *ConcatN) Outputs() Shape { return Shape{l.n * l.l} }
func (l *ConcatN) String() string { return fmt.Sprintf("ConcatN<%d>(%d)", l.n, l.l) }

func (l *ConcatN) Fwd(xs ...[]float32) ([][]float32, error) {
	if err := checkInputs(l, xs); err != nil {
		return nil, err
	}
	return [][]float32{join(l.n*l.l, xs)}, nil
}

// Concat concatenates vectors of arbitrary lengths. It is what SideBySide and Recurrent use
// to join vectors that ConcatN cannot, such as an event and a memory.
type Concat struct {
	s Shape
}

func NewConcat(s Shape) *Concat { return &Concat{s: s.Clone()} }

func (l *Concat) Inputs() Shape  { return l.s.Clone() }
func (l *Concat) Outputs() Shape { return Shape{l.s.TotalSize()} }
func (l *Concat) String() string { return fmt.Sprintf("Concat%v", []int(l.s)) }

func (l *Concat) Fwd(xs ...[]float32) ([][]float32, error) {
	if err := checkInputs(l, xs); err != nil {
		return nil, err
	}
	return [][]float32{join(l.s.TotalSize(), xs)}, nil
}

// Split splits one vector into two at a fixed offset.
type Split struct {
	l, at int
}

// NewSplit creates a split of a vector of length l into [0, at) and [at, l)
func NewSplit(l, at int) (*Split, error) {
	if at < 0 || at > l {
		return nil, errors.Errorf("Cannot split a vector of length %d at %d", l, at)
	}
	return &Split{l: l, at: at}, nil
}

func (l *Split) Inputs() Shape  { return Shape{l.l} }
func (l *Split) Outputs() Shape { return Shape{l.at, l.l - l.at} }
func (l *Split) String() string { return fmt.Sprintf("Split(%d@%d)", l.l, l.at) }

func (l *Split) Fwd(xs ...[]float32) ([][]float32, error) {
	if err := checkInputs(l, xs); err != nil {
		return nil, err
	}
	head := make([]float32, l.at)
	tail := make([]float32, l.l-l.at)
	copy(head, xs[0][:l.at])
	copy(tail, xs[0][l.at:])
	return [][]float32{head, tail}, nil
}

// PassThrough is the identity. It is where an external vector enters the graph.
type PassThrough struct {
	n int
}

func NewPassThrough(n int) *PassThrough { return &PassThrough{n: n} }

func (l *PassThrough) Inputs() Shape  { return Shape{l.n} }
func (l *PassThrough) Outputs() Shape { return Shape{l.n} }
func (l *PassThrough) String() string { return fmt.Sprintf("PassThrough(%d)", l.n) }

func (l *PassThrough) Fwd(xs ...[]float32) ([][]float32, error) {
	if err := checkInputs(l, xs); err != nil {
		return nil, err
	}
	retVal := make([]float32, l.n)
	copy(retVal, xs[0])
	return [][]float32{retVal}, nil
}

// Noise takes no inputs. Every call samples a fresh vector uniformly from [-1, 1).
type Noise struct {
	size int
	r    *rand.Rand
}

func NewNoise(size int, r *rand.Rand) *Noise { return &Noise{size: size, r: r} }

func (l *Noise) Inputs() Shape  { return Shape{} }
func (l *Noise) Outputs() Shape { return Shape{l.size} }
func (l *Noise) String() string { return fmt.Sprintf("Noise(%d)", l.size) }

func (l *Noise) Fwd(xs ...[]float32) ([][]float32, error) {
	if err := checkInputs(l, xs); err != nil {
		return nil, err
	}
	return [][]float32{uniform(l.r, l.size)}, nil
}

// uniform samples n floats from [-1, 1)
func uniform(r *rand.Rand, n int) []float32 {
	retVal := make([]float32, n)
	for i := range retVal {
		retVal[i] = r.Float32()
	}
	vecf32.Scale(retVal, 2)
	for i := range retVal {
		retVal[i]--
	}
	return retVal
}

func join(size int, xs [][]float32) []float32 {
	retVal := make([]float32, 0, size)
	for _, x := range xs {
		retVal = append(retVal, x...)
	}
	return retVal
}
