// Package layer implements forward-only vector transforms and the combinators that wire them into a fixed graph.
//
// Every layer declares the number and the lengths of the vectors it consumes and produces.
// Combinators check these declarations when they are constructed, so a graph that was built
// without error can only fail at call time if the caller feeds it the wrong vectors.
package layer

import (
	"fmt"

	"github.com/pkg/errors"
)

// Layer is a fixed-arity vector transform.
type Layer interface {
	// Inputs returns the length of each input vector. len(Inputs()) is the input arity.
	Inputs() Shape

	// Outputs returns the length of each output vector. len(Outputs()) is the output arity.
	Outputs() Shape

	// Fwd runs the layer forwards. It fails if xs does not match Inputs().
	Fwd(xs ...[]float32) ([][]float32, error)

	fmt.Stringer
}

// Shape is a list of vector lengths.
type Shape []int

// Eq returns true if both shapes have the same arity and the same lengths.
func (s Shape) Eq(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// TotalSize is the sum of all the lengths.
func (s Shape) TotalSize() int {
	var retVal int
	for _, v := range s {
		retVal += v
	}
	return retVal
}

func (s Shape) Clone() Shape {
	retVal := make(Shape, len(s))
	copy(retVal, s)
	return retVal
}

// checkInputs checks that the vectors fed to a layer match its declared inputs.
func checkInputs(l Layer, xs [][]float32) error {
	expected := l.Inputs()
	if len(xs) != len(expected) {
		return errors.Errorf("%v expects %d input vectors. Got %d", l, len(expected), len(xs))
	}
	for i, x := range xs {
		if len(x) != expected[i] {
			return errors.Errorf("%v expects input %d to have length %d. Got %d", l, i, expected[i], len(x))
		}
	}
	return nil
}

// single checks that a layer produces exactly one vector and returns its length.
func single(l Layer, s Shape, what string) (int, error) {
	if len(s) != 1 {
		return 0, errors.Errorf("%v must have exactly one %s. It has %d", l, what, len(s))
	}
	return s[0], nil
}
