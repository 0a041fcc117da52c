package layer

import (
	"fmt"
	"io"
	"strings"

	"github.com/awalterschulze/gographviz"
)

// Children returns the layers directly composed by l. Primitives have none.
func Children(l Layer) []Layer {
	switch lt := l.(type) {
	case *Seq:
		return []Layer{lt.above, lt.below}
	case *Side:
		return []Layer{lt.left, lt.right}
	case *Recurrent:
		return []Layer{lt.inner}
	}
	return nil
}

// Walk visits l and everything it is composed of, depth first.
func Walk(l Layer, fn func(Layer)) {
	fn(l)
	for _, kid := range Children(l) {
		Walk(kid, fn)
	}
}

// Affines returns every affine layer in the graph, in the order they are evaluated.
func Affines(l Layer) []*Affine {
	var retVal []*Affine
	Walk(l, func(n Layer) {
		if a, ok := n.(*Affine); ok {
			retVal = append(retVal, a)
		}
	})
	return retVal
}

// ExecLog concatenates the execution logs of every affine layer in the graph.
func ExecLog(l Layer) string {
	var buf strings.Builder
	for _, a := range Affines(l) {
		if log := a.ExecLog(); log != "" {
			fmt.Fprintf(&buf, "%v:\n%s", a, log)
		}
	}
	return buf.String()
}

// Close closes every layer in the graph that holds a resource.
func Close(l Layer) error {
	var allErrs manyErr
	Walk(l, func(n Layer) {
		if c, ok := n.(io.Closer); ok {
			if err := c.Close(); err != nil {
				allErrs = append(allErrs, err)
			}
		}
	})
	if len(allErrs) > 0 {
		return allErrs
	}
	return nil
}

// ToDot renders the topology as a graphviz graph. Edges go from a combinator to what it composes.
func ToDot(l Layer) string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	g.SetDir(true)

	var id int
	var add func(n Layer) string
	add = func(n Layer) string {
		name := fmt.Sprintf("n%d", id)
		id++
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "box",
			"label":    fmt.Sprintf("%q", fmt.Sprintf("%v\nin %v out %v", n, []int(n.Inputs()), []int(n.Outputs()))),
		}
		g.AddNode("G", name, attrs)
		for _, kid := range Children(n) {
			g.AddEdge(name, add(kid), true, nil)
		}
		return name
	}
	add(l)
	return g.String()
}
