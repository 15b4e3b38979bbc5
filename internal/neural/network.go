// Package neural is a small fully connected feed-forward network with
// sigmoid activations, trained online by backpropagation with momentum.
//
// Weights are gonum matrices, one per layer transition, with the bias in
// the last column.
package neural

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/aspera-non-spernit/guru/internal/errors"
)

// Network is not safe for concurrent use. Run only reads weights, but
// Train mutates them in place.
type Network struct {
	layers  []int
	weights []*mat.Dense
	// previous update per layer, for momentum
	deltas []*mat.Dense
}

// New builds a network with the given layer sizes, input first and output
// last. Initial weights are drawn uniformly from [-0.5, 0.5) with a PRNG
// seeded by seed, so equal seeds give equal networks.
func New(layers []int, seed uint64) (*Network, error) {
	if err := checkLayers(layers); err != nil {
		return nil, err
	}
	r := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
	n := &Network{layers: append([]int(nil), layers...)}
	for l := 1; l < len(layers); l++ {
		rows, cols := layers[l], layers[l-1]+1
		data := make([]float64, rows*cols)
		for i := range data {
			data[i] = r.Float64() - 0.5
		}
		n.weights = append(n.weights, mat.NewDense(rows, cols, data))
	}
	n.resetDeltas()
	return n, nil
}

func checkLayers(layers []int) error {
	if len(layers) < 2 {
		return errors.Wrapf(errors.ErrModelShape, "need at least an input and an output layer, got %d", len(layers))
	}
	for i, size := range layers {
		if size < 1 {
			return errors.Wrapf(errors.ErrModelShape, "layer %d has size %d", i, size)
		}
	}
	return nil
}

func (n *Network) resetDeltas() {
	n.deltas = make([]*mat.Dense, len(n.weights))
	for i, w := range n.weights {
		r, c := w.Dims()
		n.deltas[i] = mat.NewDense(r, c, nil)
	}
}

// Layers returns a copy of the layer sizes.
func (n *Network) Layers() []int { return append([]int(nil), n.layers...) }

// Inputs is the width of the input layer.
func (n *Network) Inputs() int { return n.layers[0] }

// Outputs is the width of the output layer.
func (n *Network) Outputs() int { return n.layers[len(n.layers)-1] }

// Run feeds input forward and returns the output layer.
func (n *Network) Run(input []float64) ([]float64, error) {
	if len(input) != n.Inputs() {
		return nil, errors.Wrapf(errors.ErrModelShape, "input has %d values, network expects %d", len(input), n.Inputs())
	}
	acts := n.forward(input)
	out := acts[len(acts)-1]
	return append([]float64(nil), out.RawVector().Data...), nil
}

// forward returns the activations of every layer, input included.
func (n *Network) forward(input []float64) []*mat.VecDense {
	acts := make([]*mat.VecDense, 0, len(n.layers))
	acts = append(acts, mat.NewVecDense(len(input), append([]float64(nil), input...)))
	for _, w := range n.weights {
		in := withBias(acts[len(acts)-1])
		r, _ := w.Dims()
		z := mat.NewVecDense(r, nil)
		z.MulVec(w, in)
		for i := 0; i < r; i++ {
			z.SetVec(i, sigmoid(z.AtVec(i)))
		}
		acts = append(acts, z)
	}
	return acts
}

// backprop applies one online update for a single example and returns its
// squared error summed over the outputs.
func (n *Network) backprop(input, target []float64, rate, momentum float64) float64 {
	acts := n.forward(input)
	out := acts[len(acts)-1]

	var sse float64
	delta := mat.NewVecDense(out.Len(), nil)
	for i := 0; i < out.Len(); i++ {
		o := out.AtVec(i)
		e := target[i] - o
		sse += e * e
		delta.SetVec(i, e*o*(1-o))
	}

	for l := len(n.weights) - 1; l >= 0; l-- {
		w := n.weights[l]
		in := withBias(acts[l])

		// error signal for the layer below, computed before w changes
		var below *mat.VecDense
		if l > 0 {
			_, c := w.Dims()
			back := mat.NewVecDense(c, nil)
			back.MulVec(w.T(), delta)
			a := acts[l]
			below = mat.NewVecDense(a.Len(), nil)
			for i := 0; i < a.Len(); i++ {
				v := a.AtVec(i)
				below.SetVec(i, back.AtVec(i)*v*(1-v))
			}
		}

		r, c := w.Dims()
		step := mat.NewDense(r, c, nil)
		step.Outer(rate, delta, in)
		prev := n.deltas[l]
		prev.Scale(momentum, prev)
		step.Add(step, prev)
		w.Add(w, step)
		prev.Copy(step)

		delta = below
	}
	return sse
}

func withBias(v *mat.VecDense) *mat.VecDense {
	data := make([]float64, v.Len()+1)
	copy(data, v.RawVector().Data)
	data[len(data)-1] = 1
	return mat.NewVecDense(len(data), data)
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }
