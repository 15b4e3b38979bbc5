package dataset

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/league"
)

// FilterResults returns the matches with a result, in order.
func FilterResults(matches []league.Match) []league.Match {
	out := make([]league.Match, 0, len(matches))
	for _, m := range matches {
		if m.HasResult() {
			out = append(out, m)
		}
	}
	return out
}

// FilterNoResults returns the fixtures still to be played, in order.
func FilterNoResults(matches []league.Match) []league.Match {
	out := make([]league.Match, 0)
	for _, m := range matches {
		if !m.HasResult() {
			out = append(out, m)
		}
	}
	return out
}

// SplitAt cuts matches after round(len*fraction) entries. Both halves keep
// the input order.
func SplitAt(matches []league.Match, fraction float64) (head, tail []league.Match, err error) {
	if fraction <= 0 || fraction > 1 || math.IsNaN(fraction) {
		return nil, nil, errors.Newf("split fraction %v is outside (0, 1]", fraction)
	}
	n := int(math.Round(float64(len(matches)) * fraction))
	return slices.Clone(matches[:n]), slices.Clone(matches[n:]), nil
}

// Folds deals the indexes 0..n-1 into k folds at random. The deal is
// reproducible for a seed and every fold is in ascending order.
func Folds(n, k int, seed uint64) ([][]int, error) {
	if k < 1 {
		return nil, errors.Newf("cannot split into %d folds", k)
	}
	if k > n {
		return nil, errors.Wrapf(errors.ErrEmptyDataset, "%d matches cannot fill %d folds", n, k)
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	folds := make([][]int, k)
	for i, p := range r.Perm(n) {
		folds[i%k] = append(folds[i%k], p)
	}
	for _, f := range folds {
		slices.Sort(f)
	}
	return folds, nil
}

// RandKSplit deals matches into k folds with Folds. Each fold keeps the
// input order so it can be fed to a generator directly.
func RandKSplit(matches []league.Match, k int, seed uint64) ([][]league.Match, error) {
	idx, err := Folds(len(matches), k, seed)
	if err != nil {
		return nil, err
	}
	folds := make([][]league.Match, k)
	for f, fold := range idx {
		folds[f] = make([]league.Match, 0, len(fold))
		for _, i := range fold {
			folds[f] = append(folds[f], matches[i])
		}
	}
	return folds, nil
}
