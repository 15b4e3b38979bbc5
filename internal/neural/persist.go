package neural

import (
	"encoding/json"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/aspera-non-spernit/guru/internal/errors"
)

type network struct {
	Layers []int `json:"layers"`
	// Weights[l][row] holds the incoming weights of one unit in layer l+1,
	// bias last.
	Weights [][][]float64 `json:"weights"`
}

// MarshalJSON encodes layer sizes and weights. Momentum state is not kept.
func (n *Network) MarshalJSON() ([]byte, error) {
	out := network{Layers: n.layers, Weights: make([][][]float64, len(n.weights))}
	for l, w := range n.weights {
		r, _ := w.Dims()
		rows := make([][]float64, r)
		for i := 0; i < r; i++ {
			rows[i] = append([]float64(nil), w.RawRowView(i)...)
		}
		out.Weights[l] = rows
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a network written by MarshalJSON and checks that
// every matrix fits the layer sizes.
func (n *Network) UnmarshalJSON(data []byte) error {
	var in network
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(err, "decoding network")
	}
	if err := checkLayers(in.Layers); err != nil {
		return err
	}
	if len(in.Weights) != len(in.Layers)-1 {
		return errors.Wrapf(errors.ErrModelShape, "%d weight matrices for %d layers", len(in.Weights), len(in.Layers))
	}
	weights := make([]*mat.Dense, len(in.Weights))
	for l, rows := range in.Weights {
		r, c := in.Layers[l+1], in.Layers[l]+1
		if len(rows) != r {
			return errors.Wrapf(errors.ErrModelShape, "layer %d has %d rows, want %d", l+1, len(rows), r)
		}
		flat := make([]float64, 0, r*c)
		for i, row := range rows {
			if len(row) != c {
				return errors.Wrapf(errors.ErrModelShape, "layer %d row %d has %d weights, want %d", l+1, i, len(row), c)
			}
			flat = append(flat, row...)
		}
		weights[l] = mat.NewDense(r, c, flat)
	}
	n.layers = append([]int(nil), in.Layers...)
	n.weights = weights
	n.resetDeltas()
	return nil
}

// Save writes the network as JSON to path.
func (n *Network) Save(path string) error {
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding network")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing network to %s", path)
	}
	return nil
}

// Load reads a network saved with Save.
func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading network from %s", path)
	}
	n := &Network{}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, errors.Wrapf(err, "loading network from %s", path)
	}
	return n, nil
}
