// Package gif renders a conversation into an animated gif, one frame per step.
package gif

import (
	"image/gif"
	"io"

	"github.com/gorgonia/babble"
	"github.com/gorgonia/babble/encoding/internal/frame"
	"github.com/pkg/errors"
)

const (
	delay    = 20  // hundredths of a second per step
	eolDelay = 100 // hold the frame a little longer at the end of a line
)

// Encoder is a structure that encodes a conversation according to the babble.OutputEncoder interface
type Encoder struct {
	io.Writer

	r   *frame.Renderer
	out *gif.GIF
}

// NewGifEncoder with height and width. The gif is written to w on Flush.
func NewGifEncoder(w io.Writer, height, width int) *Encoder {
	return &Encoder{
		Writer: w,
		r:      frame.New(height, width),
		out:    &gif.GIF{LoopCount: -1},
	}
}

// Encode a step
func (enc *Encoder) Encode(t babble.Transcripter) error {
	im := enc.r.Draw(t)
	d := delay
	if out := t.LastOutput(); !out.IsNothing() && out.Char == '\n' {
		d = eolDelay
	}
	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, d)
	return nil
}

// Frames is the number of frames encoded so far.
func (enc *Encoder) Frames() int { return len(enc.out.Image) }

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error {
	if enc.Writer == nil {
		return errors.New("No writer to flush the gif into")
	}
	if len(enc.out.Image) == 0 {
		return nil
	}
	return errors.WithStack(gif.EncodeAll(enc.Writer, enc.out))
}
