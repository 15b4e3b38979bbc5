package guru

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aspera-non-spernit/guru/internal/dataset"
	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/neural"
	"github.com/aspera-non-spernit/guru/internal/stats"
)

// NetworkStats counts hits and misses of one kind of prediction.
type NetworkStats struct {
	Tested   int `json:"tested"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// Update records one prediction.
func (s *NetworkStats) Update(positive bool) {
	s.Tested++
	if positive {
		s.Positive++
	} else {
		s.Negative++
	}
}

// Add merges o into s.
func (s *NetworkStats) Add(o NetworkStats) {
	s.Tested += o.Tested
	s.Positive += o.Positive
	s.Negative += o.Negative
}

// Correct is the share of positive predictions in whole percent.
func (s NetworkStats) Correct() int {
	if s.Tested == 0 {
		return 0
	}
	return s.Positive * 100 / s.Tested
}

func (s NetworkStats) String() string {
	return fmt.Sprintf("tested: %d, positive: %d, negative: %d, correct: %d%%",
		s.Tested, s.Positive, s.Negative, s.Correct())
}

// Prediction is the model's score for one match. Expected is nil for a
// fixture without a result.
type Prediction struct {
	Date      time.Time      `json:"date"`
	Home      league.Club    `json:"home"`
	Away      league.Club    `json:"away"`
	Expected  *league.Result `json:"expected,omitempty"`
	Predicted league.Result  `json:"predicted"`
}

func (p Prediction) String() string {
	expected := "-"
	if p.Expected != nil {
		expected = fmt.Sprintf("%d : %d", p.Expected.Home, p.Expected.Away)
	}
	return fmt.Sprintf("%s %d : %d %s\nExpected: %s\n",
		p.Home, p.Predicted.Home, p.Predicted.Away, p.Away, expected)
}

// Row renders p as one markdown table row.
func (p Prediction) Row() string {
	return fmt.Sprintf("|%s|%d : %d|%s|", p.Home, p.Predicted.Home, p.Predicted.Away, p.Away)
}

// Predictions is an ordered list of predictions.
type Predictions []Prediction

func (ps Predictions) String() string {
	var b strings.Builder
	b.WriteString("Home | Predicted result | Away\n")
	for _, p := range ps {
		b.WriteString(p.String())
	}
	return b.String()
}

// Markdown renders the predictions as a markdown table.
func (ps Predictions) Markdown() string {
	var b strings.Builder
	b.WriteString("|Home|Predicted result|Away|\n")
	b.WriteString("|-:|:-:|:-|\n")
	for _, p := range ps {
		b.WriteString(p.Row())
		b.WriteByte('\n')
	}
	return b.String()
}

// Report is the outcome of running a network over a sample set.
type Report struct {
	// exact score hits
	Result NetworkStats `json:"result"`
	// home win / draw / away win hits
	Winner      NetworkStats `json:"winner"`
	Predictions Predictions  `json:"predictions"`
}

// Test runs net over samples and scores the predictions against matches,
// which must be the matches the samples were assembled from, in the same
// order. Outputs are scaled back by highest, the anchor the samples were
// built with. Fixtures get a prediction but are not scored.
func Test(net *neural.Network, samples []dataset.Sample, matches []league.Match, highest int) (*Report, error) {
	if len(samples) != len(matches) {
		return nil, errors.AssertionFailedf("%d samples for %d matches", len(samples), len(matches))
	}
	rep := &Report{Predictions: make(Predictions, 0, len(samples))}
	for i, s := range samples {
		out, err := net.Run(s.Inputs)
		if err != nil {
			return nil, errors.Wrapf(err, "running sample %d", i)
		}
		if len(out) < 2 {
			return nil, errors.Wrapf(errors.ErrModelShape, "network has %d outputs, want 2", len(out))
		}
		m := matches[i]
		p := Prediction{
			Date:      m.Date,
			Home:      m.Home,
			Away:      m.Away,
			Expected:  m.Result,
			Predicted: league.Result{Home: denormalize(out[0], highest), Away: denormalize(out[1], highest)},
		}
		rep.Predictions = append(rep.Predictions, p)

		if m.Result == nil {
			continue
		}
		rep.Result.Update(*m.Result == p.Predicted)
		rep.Winner.Update(stats.OutcomeOf(*m.Result) == stats.OutcomeOf(p.Predicted))
	}
	return rep, nil
}

func denormalize(v float64, highest int) int {
	return max(0, int(math.Round(v*float64(highest))))
}
