package babble

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/vecf32"
)

const (
	// InputWidth is the length of an encoded event: one slot per byte, and one for ticks (or nothing).
	InputWidth = 257

	// NothingIndex is the slot of a tick when encoding, and of Nothing when decoding.
	NothingIndex = 256
)

// Encode one-hot encodes an event.
func Encode(e EventIn) ([]float32, error) {
	retVal := make([]float32, InputWidth)
	switch e.Kind {
	case ChatCharacter:
		if e.Char < 0 || e.Char >= NothingIndex {
			return nil, errors.Wrapf(ErrUnencodable, "%v is not a single byte character", e)
		}
		retVal[e.Char] = 1
	case TimeTick:
		retVal[NothingIndex] = 1
	default:
		return nil, errors.Wrapf(ErrUnencodable, "%v", e)
	}
	return retVal, nil
}

// Decode interprets the slot with the highest value. Ties go to the lowest slot.
func Decode(a []float32) (EventOut, error) {
	if len(a) != InputWidth {
		return Silence(), errors.Errorf("Cannot decode a vector of length %d. Expected %d", len(a), InputWidth)
	}
	idx := argmax(a)
	if idx == NothingIndex {
		return Silence(), nil
	}
	return Say(rune(idx)), nil
}

// Softmax normalizes a into a probability distribution. a is not modified.
// The maximum is subtracted first so that large values do not overflow.
func Softmax(a []float32) []float32 {
	retVal := make([]float32, len(a))
	if len(a) == 0 {
		return retVal
	}
	max := a[argmax(a)]
	for i, v := range a {
		retVal[i] = math32.Exp(v - max)
	}
	sum := vecf32.Sum(retVal)
	vecf32.Scale(retVal, 1/sum)
	return retVal
}

// ValidDistribution returns true if every entry is a finite non-negative number.
func ValidDistribution(a []float32) bool {
	for _, v := range a {
		if math32.IsInf(v, 0) {
			return false
		}
		if math32.IsNaN(v) {
			return false
		}
		if v < 0 {
			return false
		}
	}
	return true
}

// finite reports whether every element is neither NaN nor infinite.
func finite(a []float32) bool {
	for _, v := range a {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func argmax(a []float32) int {
	var retVal int
	var max float32 = math32.Inf(-1)
	for i := range a {
		if a[i] > max {
			max = a[i]
			retVal = i
		}
	}
	return retVal
}
