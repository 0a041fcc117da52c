package frame

import (
	"testing"

	"github.com/gorgonia/babble"
	"github.com/stretchr/testify/assert"
)

type convo struct{ steps int }

func (c convo) Name() string    { return "test" }
func (c convo) StepNumber() int { return c.steps }
func (c convo) Transcript() string {
	return "hello\nworld, this line is a good deal longer than thirty two runes\x01"
}
func (c convo) LastOutput() babble.EventOut { return babble.Say('\x01') }
func (c convo) LastInput() babble.EventIn   { return babble.Tick() }

func TestDraw(t *testing.T) {
	r := New(400, 300)
	im := r.Draw(convo{1})
	assert.True(t, im.Bounds().Dx() <= 300)
	assert.True(t, im.Bounds().Dy() <= 400)

	im2 := r.Draw(convo{2})
	assert.Equal(t, im.Bounds(), im2.Bounds(), "every frame has the same size")

	var ink bool
	for _, p := range im2.Pix {
		if p == 0 {
			ink = true
			break
		}
	}
	assert.True(t, ink, "expected some text to be drawn")
}
