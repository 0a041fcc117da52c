// Package mjpeg streams a conversation as motion jpeg over HTTP, one frame per step.
package mjpeg

import (
	"bytes"
	"image/jpeg"
	"log"
	"net/http"

	"github.com/gorgonia/babble"
	"github.com/gorgonia/babble/encoding/internal/frame"
	"github.com/mattn/go-mjpeg"
)

// Encoder is a structure that encodes a conversation according to the babble.OutputEncoder interface
type Encoder struct {
	r      *frame.Renderer
	stream *mjpeg.Stream
}

func (e *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.stream.ServeHTTP(w, r)
}

// NewEncoder with height and width
func NewEncoder(h, w int) *Encoder {
	return &Encoder{
		r:      frame.New(h, w),
		stream: mjpeg.NewStream(),
	}
}

// Encode a step
func (enc *Encoder) Encode(t babble.Transcripter) error {
	im := enc.r.Draw(t)
	var b bytes.Buffer
	err := jpeg.Encode(&b, im, nil)
	if err != nil {
		log.Println(err)
		return err
	}
	err = enc.stream.Update(b.Bytes())
	if err != nil {
		log.Println(err)
		return err
	}
	return nil
}

func (enc *Encoder) Flush() error { return nil }
