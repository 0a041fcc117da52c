package layer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	assert := assert.New(t)
	conf := DefaultConf(257)
	l, err := Build(conf, rand.New(rand.NewSource(1337)))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer func() {
		if err := Close(l); err != nil {
			t.Errorf("closing: %v", err)
		}
	}()

	assert.Equal(Shape{257}, l.Inputs())
	assert.Equal(Shape{257}, l.Outputs())
	assert.Equal(16, l.MemoryWidth())

	affines := Affines(l)
	if assert.Len(affines, 1) {
		assert.Equal(Shape{257 + 16 + 16}, affines[0].Inputs())
		assert.Equal(Shape{273}, affines[0].Outputs())
	}

	x := make([]float32, 257)
	x[97] = 1
	ys, err := l.Fwd(x)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Len(ys[0], 257)
	for _, v := range ys[0] {
		assert.True(v >= 0, "the dense stage is rectified")
	}
	for _, v := range l.Memory() {
		assert.True(v >= 0, "memory is rectified")
	}
}

func TestBuildRejectsBadConfig(t *testing.T) {
	conf := DefaultConf(257)
	conf.HiddenWidth = 257 + 64 // memory of 16, hidden sized for 64
	if _, err := Build(conf, rand.New(rand.NewSource(1))); err == nil {
		t.Error("Expected a hidden width inconsistent with the memory width to be rejected")
	}
}

func TestBuildTrace(t *testing.T) {
	conf := DefaultConf(3)
	conf.Trace = true
	l, err := Build(conf, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer Close(l)
	if _, err := l.Fwd([]float32{1, 0, 0}); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.NotEmpty(t, ExecLog(l))
}

func TestToDot(t *testing.T) {
	l, err := Build(DefaultConf(257), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer Close(l)

	dot := ToDot(l)
	for _, want := range []string{"Recurrent", "Sequential", "SideBySide", "PassThrough(273)", "Noise(16)", "Affine(289→273)", "Rectify(273)"} {
		if !strings.Contains(dot, want) {
			t.Errorf("Expected the dot graph to mention %q:\n%v", want, dot)
		}
	}
}
