package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspera-non-spernit/guru/internal/guru"
	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/metrics"
)

var kickoff = time.Date(2022, 4, 2, 15, 0, 0, 0, time.UTC)

func testState() State {
	matches := []league.Match{
		{Date: kickoff, Home: "Hearts", Away: "Hibs", Result: &league.Result{Home: 1, Away: 1}},
		{Date: kickoff.AddDate(0, 0, 7), Home: "Hibs", Away: "Rangers", Result: &league.Result{Home: 0, Away: 2}},
		{Date: kickoff.AddDate(0, 0, 14), Home: "Hibs", Away: "Hearts", Result: &league.Result{Home: 3, Away: 1}},
		{Date: kickoff.AddDate(0, 0, 21), Home: "Rangers", Away: "Hearts"},
	}
	return State{
		Registry: league.NewRegistry(matches, true),
		Matches:  matches,
		Predictions: guru.Predictions{
			{Date: matches[3].Date, Home: "Rangers", Away: "Hearts", Predicted: league.Result{Home: 2, Away: 0}},
		},
	}
}

func serve(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics.New(reg).ObservePass(4, 3, 1)
	rec := httptest.NewRecorder()
	NewRouter(h, reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestClubs(t *testing.T) {
	rec := serve(t, NewHandler(testState(), nil, nil), "/clubs")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []club
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []club{{"Hearts", 0}, {"Hibs", 1}, {"Rangers", 2}}, got)
}

func TestStandings(t *testing.T) {
	rec := serve(t, NewHandler(testState(), nil, nil), "/standings")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []league.TableEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, league.Club("Hibs"), got[0].Club)
	assert.Equal(t, 4, got[0].Points)
	assert.Equal(t, league.Club("Hearts"), got[2].Club)
}

func TestHeadToHead(t *testing.T) {
	rec := serve(t, NewHandler(testState(), nil, nil), "/head-to-head/Hearts/Hibs")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []league.Match
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	rec = serve(t, NewHandler(testState(), nil, nil), "/head-to-head/Hearts/Celtic")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeadToHeadSameClub(t *testing.T) {
	rec := serve(t, NewHandler(testState(), nil, nil), "/head-to-head/Hearts/Hearts")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "itself")
}

type brokenSource struct{}

func (brokenSource) MatchesBetween(context.Context, league.Club, league.Club) ([]league.Match, error) {
	return nil, assert.AnError
}

func TestHeadToHeadSourceFailure(t *testing.T) {
	rec := serve(t, NewHandler(testState(), brokenSource{}, nil), "/head-to-head/Hearts/Hibs")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "head-to-head lookup failed")
}

func TestPredictions(t *testing.T) {
	h := NewHandler(testState(), nil, nil)

	rec := serve(t, h, "/predictions")
	require.Equal(t, http.StatusOK, rec.Code)
	var got guru.Predictions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, league.Result{Home: 2, Away: 0}, got[0].Predicted)

	rec = serve(t, h, "/predictions?format=markdown")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "|Home|Predicted result|Away|\n|-:|:-:|:-|\n|Rangers|2 : 0|Hearts|\n", rec.Body.String())
}

func TestMetricsAndHealth(t *testing.T) {
	h := NewHandler(testState(), nil, nil)

	rec := serve(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "guru_passes_total 1"))

	rec = serve(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(NewHandler(testState(), nil, nil), prometheus.NewRegistry()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/clubs", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
