package dataset

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/features"
	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/metrics"
	"github.com/aspera-non-spernit/guru/internal/stats"
)

var kickoff = time.Date(2020, 3, 1, 15, 0, 0, 0, time.UTC)

func match(d int, home, away league.Club, result ...int) league.Match {
	m := league.Match{Date: kickoff.AddDate(0, 0, d), Home: home, Away: away}
	if len(result) == 2 {
		m.Result = &league.Result{Home: result[0], Away: result[1]}
	}
	return m
}

func generator(t *testing.T, matches []league.Match) (features.Generator, *stats.Ledger) {
	t.Helper()
	r := league.NewRegistry(matches, true)
	l := stats.NewLedger(r.Clubs())
	g, err := features.New(features.KindDefault, matches, r, l, features.Options{})
	require.NoError(t, err)
	return g, l
}

type failing struct{ after int }

func (f *failing) Generate(league.Match) ([]float64, error) {
	if f.after == 0 {
		return nil, errors.MissingClub("Ghost")
	}
	f.after--
	return []float64{0}, nil
}

func TestAssembleScalesOutputs(t *testing.T) {
	matches := []league.Match{match(0, "Red", "Blue", 2, 1), match(1, "Blue", "Red")}
	g, _ := generator(t, matches)

	s, err := Assemble(matches[0], 4, g)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25}, s.Outputs)
	assert.Len(t, s.Inputs, features.Width(2))
	assert.True(t, s.Trainable())

	s, err = Assemble(matches[1], 4, g)
	require.NoError(t, err)
	assert.Empty(t, s.Outputs)
	assert.False(t, s.Trainable())
}

func TestPassCountsAndMetrics(t *testing.T) {
	matches := []league.Match{
		match(0, "Red", "Blue", 2, 1),
		match(1, "Green", "Red", 0, 0),
		match(2, "Blue", "Green", 1, 3),
		match(3, "Red", "Green"),
	}
	g, l := generator(t, matches)
	core, logs := observer.New(zap.InfoLevel)
	m := metrics.New(prometheus.NewRegistry())

	res, err := Pass(matches, 3, g, PassOptions{Logger: zap.New(core).Sugar(), Metrics: m})

	require.NoError(t, err)
	assert.Len(t, res.Samples, 4)
	assert.Equal(t, 3, res.Train)
	assert.Equal(t, 1, res.Predict)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Passes))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Samples.WithLabelValues(metrics.KindTrain)))

	red, err := l.Get("Red")
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, 1}, red.GamesPlayed)

	finished := logs.FilterMessage("pass finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, res.ID.String(), finished[0].ContextMap()["pass_id"])
}

func TestPassAbortsWithoutPartialOutput(t *testing.T) {
	matches := []league.Match{match(0, "A", "B", 1, 0), match(1, "B", "A", 1, 1), match(2, "A", "B", 0, 2)}
	m := metrics.New(prometheus.NewRegistry())

	res, err := Pass(matches, 2, &failing{after: 2}, PassOptions{Metrics: m})

	assert.Nil(t, res)
	assert.True(t, errors.Is(err, errors.ErrMissingClub))
	assert.Contains(t, err.Error(), "match 2")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Passes))
}

func TestFilters(t *testing.T) {
	matches := []league.Match{
		match(0, "A", "B", 1, 0),
		match(1, "C", "D"),
		match(2, "B", "C", 2, 2),
		match(3, "D", "A"),
	}

	played := FilterResults(matches)
	open := FilterNoResults(matches)

	assert.Equal(t, []league.Match{matches[0], matches[2]}, played)
	assert.Equal(t, []league.Match{matches[1], matches[3]}, open)
}

func TestSplitAt(t *testing.T) {
	var matches []league.Match
	for i := range 10 {
		matches = append(matches, match(i, "A", "B", i, 0))
	}

	head, tail, err := SplitAt(matches, 0.9)
	require.NoError(t, err)
	assert.Len(t, head, 9)
	assert.Equal(t, matches[9:], tail)

	head, tail, err = SplitAt(matches, 1)
	require.NoError(t, err)
	assert.Len(t, head, 10)
	assert.Empty(t, tail)

	for _, bad := range []float64{0, -0.5, 1.5} {
		_, _, err = SplitAt(matches, bad)
		assert.Error(t, err, "fraction %v", bad)
	}
}

func TestRandKSplit(t *testing.T) {
	var matches []league.Match
	for i := range 23 {
		matches = append(matches, match(i, "A", "B", i%4, i%3))
	}

	folds, err := RandKSplit(matches, 5, 7)
	require.NoError(t, err)
	require.Len(t, folds, 5)

	total := 0
	for _, f := range folds {
		assert.True(t, league.IsChronological(f))
		assert.GreaterOrEqual(t, len(f), 4)
		total += len(f)
	}
	assert.Equal(t, len(matches), total)

	again, err := RandKSplit(matches, 5, 7)
	require.NoError(t, err)
	assert.Equal(t, folds, again)

	idx, err := Folds(len(matches), 5, 7)
	require.NoError(t, err)
	seen := make(map[int]bool)
	for f, fold := range idx {
		for j, i := range fold {
			assert.False(t, seen[i], "index %d dealt twice", i)
			seen[i] = true
			assert.Equal(t, matches[i], folds[f][j])
		}
	}
	assert.Len(t, seen, len(matches))

	_, err = RandKSplit(matches, 0, 1)
	assert.Error(t, err)
	_, err = RandKSplit(matches[:2], 3, 1)
	assert.True(t, errors.Is(err, errors.ErrEmptyDataset))
}
