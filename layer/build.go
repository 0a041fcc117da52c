package layer

import (
	"math/rand"

	"github.com/pkg/errors"
)

// maebe short circuits graph construction at the first error.
type maebe struct {
	err error
}

func (m *maebe) do(f func() (Layer, error)) (retVal Layer) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = f(); m.err != nil {
		m.err = errors.WithStack(m.err)
		return nil
	}
	return
}

func (m *maebe) affine(in, out int, r *rand.Rand, opts ...AffineOpt) Layer {
	return m.do(func() (Layer, error) { return NewAffine(in, out, r, opts...) })
}

func (m *maebe) seq(above, below Layer) Layer {
	return m.do(func() (Layer, error) { return Sequential(above, below) })
}

func (m *maebe) side(left, right Layer) Layer {
	return m.do(func() (Layer, error) { return SideBySide(left, right) })
}

// dense is an affine layer followed by a rectifier.
func (m *maebe) dense(in, out int, r *rand.Rand, opts ...AffineOpt) Layer {
	return m.seq(m.affine(in, out, r, opts...), NewRectify(out))
}

func (m *maebe) recurrent(inner Layer, width int) (retVal *Recurrent) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = NewRecurrent(inner, width); m.err != nil {
		m.err = errors.WithStack(m.err)
		return nil
	}
	return
}

// Build creates the fixed topology:
//
//	Recurrent(
//		Sequential(
//			SideBySide(PassThrough(E+M), Noise(K)),
//			Sequential(Affine(E+M+K → H), Rectify(H)),
//		),
//		M,
//	)
//
// where E is the external width, M the memory width, K the noise width and H the hidden width.
// The returned layer takes one vector of length E and returns one vector of length E.
func Build(conf Config, r *rand.Rand) (*Recurrent, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("Invalid layer config %+v", conf)
	}
	var opts []AffineOpt
	if conf.Trace {
		opts = append(opts, WithTrace())
	}

	e, mw, k, h := conf.ExternalWidth, conf.MemoryWidth, conf.NoiseWidth, conf.HiddenWidth
	var m maebe
	input := m.side(NewPassThrough(e+mw), NewNoise(k, r))
	hidden := m.dense(e+mw+k, h, r, opts...)
	inner := m.seq(input, hidden)
	retVal := m.recurrent(inner, mw)
	if m.err != nil {
		return nil, m.err
	}
	if out := retVal.Outputs(); !out.Eq(Shape{e}) {
		return nil, errors.Errorf("Recurrent outputs %v. Expected %v", out, Shape{e})
	}
	return retVal, nil
}
