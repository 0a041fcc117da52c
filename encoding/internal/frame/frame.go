// Package frame draws the state of a conversation as a two colour image.
package frame

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/babble"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi        = 144.0
	fontsize   = 12.0
	lineheight = 1.2

	// Columns is how many characters of the transcript go on a line
	Columns = 32

	// Lines is how many lines of the transcript are shown
	Lines = 6

	headerLines = 2
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

var Palette = color.Palette{
	color.Gray{0},
	color.Gray{253},
}

// Renderer draws frames. Its size is fixed by the first frame it draws.
type Renderer struct {
	H, W int
	font.Drawer

	face font.Face

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int // padding so everything don't start at the topleft
	initialized bool
}

// New creates a renderer whose frames are no larger than h by w.
func New(h, w int) *Renderer {
	return &Renderer{
		H:    -1,
		W:    -1,
		maxH: h,
		maxW: w,
		padH: 10,
		padW: 10,

		Drawer: font.Drawer{
			Src: image.Black,
		},
	}
}

func (r *Renderer) init() {
	// lazy init of sizes
	r.face = truetype.NewFace(regular, &truetype.Options{
		Size:    fontsize,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	r.Drawer.Src = image.Black
	r.Drawer.Face = r.face

	widest := font.MeasureString(r.Face, strings.Repeat("M", Columns)).Ceil()
	dy := lineHeight()
	w := widest + 2*r.padW
	h := (headerLines+Lines)*dy + 2*r.padH

	w = minInt(w, r.maxW)
	h = minInt(h, r.maxH)

	if w == r.maxW {
		r.padW = 0
	}
	if h == r.maxH {
		r.padH = 0
	}

	r.H = h
	r.W = w
	r.initialized = true
}

// Draw draws the name and step number, the last exchange, and the tail of the transcript.
func (r *Renderer) Draw(t babble.Transcripter) *image.Paletted {
	if !r.initialized {
		r.init()
	}

	im := image.NewPaletted(image.Rect(0, 0, r.W, r.H), Palette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)
	r.Dst = im

	dy := lineHeight()
	y := r.padH + dy
	text := []string{
		fmt.Sprintf("%s, step %d", t.Name(), t.StepNumber()),
		babble.Printable(fmt.Sprintf("%v → %v", t.LastInput(), t.LastOutput())),
	}
	text = append(text, babble.TailLines(t.Transcript(), Columns, Lines)...)
	for _, s := range text {
		r.Dot = fixed.P(r.padW, y)
		r.DrawString(s)
		y += dy
	}
	return im
}

func lineHeight() int { return int(math.Ceil(fontsize * lineheight * dpi / 72)) }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
