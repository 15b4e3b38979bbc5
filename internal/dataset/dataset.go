// Package dataset assembles model samples from matches and partitions
// match sets for training and evaluation.
package dataset

import (
	"github.com/aspera-non-spernit/guru/internal/features"
	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/stats"
)

// Sample is one (inputs, outputs) pair. Outputs is empty for a fixture
// without a result.
type Sample struct {
	Inputs  []float64 `json:"inputs"`
	Outputs []float64 `json:"outputs,omitempty"`
}

// Trainable reports whether the sample carries a target.
func (s Sample) Trainable() bool { return len(s.Outputs) > 0 }

// Assemble generates the inputs of m and, when m has a result, its target
// scaled against maxGoal. maxGoal must be the same anchor for every sample
// fed to one model.
func Assemble(m league.Match, maxGoal int, g features.Generator) (Sample, error) {
	inputs, err := g.Generate(m)
	if err != nil {
		return Sample{}, err
	}
	s := Sample{Inputs: inputs}
	if m.Result != nil {
		top := float64(maxGoal)
		s.Outputs = []float64{
			stats.Normalize(float64(m.Result.Home), 0, top),
			stats.Normalize(float64(m.Result.Away), 0, top),
		}
	}
	return s, nil
}
