package babble

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnencodable is returned when an event lies outside of the single byte alphabet.
	ErrUnencodable = errors.New("unencodable event")

	// ErrNotImplemented is what Feedback panics with. There is no learning yet.
	ErrNotImplemented = errors.New("not yet implemented")

	// ErrDiverged is returned when the output of the graph is no longer finite.
	ErrDiverged = errors.New("diverged")
)

type manyErr []error

func (err manyErr) Error() string {
	var buf bytes.Buffer
	for _, e := range err {
		fmt.Fprintln(&buf, e.Error())
	}
	return buf.String()
}
