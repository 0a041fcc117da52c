package layer

import (
	"bytes"
	"fmt"
	"log"
	"math/rand"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

var Float = G.Float32

// Affine computes W · [x; 1]. The weights are sampled once, when the layer is created,
// and are never changed afterwards.
//
// The product is an expression graph evaluated by a tape machine that is built once per layer,
// so there is no need to create a VM for every forward pass.
type Affine struct {
	in, out int

	g    *G.ExprGraph
	w, x *G.Node
	y    *G.Node
	yVal G.Value

	m     G.VM
	input *tensor.Dense
	buf   *bytes.Buffer
	toLog bool
}

// AffineOpt is an option for NewAffine
type AffineOpt func(*Affine)

// WithTrace makes the affine layer record an execution log of its last evaluation.
func WithTrace() AffineOpt { return func(a *Affine) { a.toLog = true } }

// NewAffine creates an affine layer from in to out. The weights, including the bias column,
// are sampled uniformly from [-1, 1) using r.
func NewAffine(in, out int, r *rand.Rand, opts ...AffineOpt) (*Affine, error) {
	if in < 0 || out < 1 {
		return nil, errors.Errorf("Cannot create an affine layer from %d to %d", in, out)
	}
	weights := tensor.New(tensor.WithShape(out, in+1), tensor.WithBacking(uniform(r, out*(in+1))))
	return newAffine(in, out, weights, opts...)
}

func newAffine(in, out int, weights *tensor.Dense, opts ...AffineOpt) (retVal *Affine, err error) {
	retVal = &Affine{
		in:    in,
		out:   out,
		g:     G.NewGraph(),
		input: tensor.New(tensor.WithShape(in+1), tensor.Of(Float)),
		buf:   new(bytes.Buffer),
	}
	for _, opt := range opts {
		opt(retVal)
	}

	retVal.w = G.NewMatrix(retVal.g, Float, G.WithShape(out, in+1), G.WithName("W"), G.WithValue(weights))
	retVal.x = G.NewVector(retVal.g, Float, G.WithShape(in+1), G.WithName("x"))
	if retVal.y, err = G.Mul(retVal.w, retVal.x); err != nil {
		return nil, errors.Wrapf(err, "unable to build %v", retVal)
	}
	G.Read(retVal.y, &retVal.yVal)

	if retVal.toLog {
		logger := log.New(retVal.buf, "", 0)
		retVal.m = G.NewTapeMachine(retVal.g,
			G.WithLogger(logger),
			G.WithWatchlist(),
			G.TraceExec(),
			G.WithValueFmt("%+1.1v"),
		)
	} else {
		retVal.m = G.NewTapeMachine(retVal.g)
	}
	return retVal, nil
}

func (a *Affine) Inputs() Shape  { return Shape{a.in} }
func (a *Affine) Outputs() Shape { return Shape{a.out} }
func (a *Affine) String() string { return fmt.Sprintf("Affine(%d→%d)", a.in, a.out) }

func (a *Affine) Fwd(xs ...[]float32) ([][]float32, error) {
	if err := checkInputs(a, xs); err != nil {
		return nil, err
	}

	// bias trick
	data := a.input.Data().([]float32)
	copy(data, xs[0])
	data[a.in] = 1

	a.m.Reset()
	a.buf.Reset()
	if err := G.Let(a.x, a.input); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := a.m.RunAll(); err != nil {
		return nil, errors.Wrapf(err, "%v failed", a)
	}
	retVal := make([]float32, a.out)
	copy(retVal, a.yVal.Data().([]float32))
	return [][]float32{retVal}, nil
}

// Weights returns a copy of the (out, in+1) weight matrix in row major order.
func (a *Affine) Weights() []float32 {
	w := a.w.Value().Data().([]float32)
	retVal := make([]float32, len(w))
	copy(retVal, w)
	return retVal
}

// ExecLog returns the execution log of the last evaluation. It is empty unless the layer was created WithTrace.
func (a *Affine) ExecLog() string { return a.buf.String() }

// Close implements a closer, because a gorgonia VM is a resource.
func (a *Affine) Close() error { return a.m.Close() }
