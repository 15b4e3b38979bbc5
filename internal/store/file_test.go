package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/league"
)

const matchesJSON = `[
  {"date": "2019-10-05T19:30:00-04:00", "league": "nisa", "home": "Detroit City", "away": "Chattanooga", "result": [2, 1]},
  {"date": "2019-10-12T19:00:00-04:00", "home": "Chattanooga", "away": "Detroit City"}
]`

const matchesYAML = `
- date: 2019-10-05T19:30:00-04:00
  league: nisa
  home: Detroit City
  away: Chattanooga
  result: [2, 1]
- date: "2019-10-12T19:00:00-04:00"
  home: Chattanooga
  away: Detroit City
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func checkLoaded(t *testing.T, matches []league.Match) {
	t.Helper()
	require.Len(t, matches, 2)

	first := matches[0]
	assert.Equal(t, "2019-10-05T19:30:00-04:00", first.Date.Format(time.RFC3339))
	assert.Equal(t, "nisa", first.League)
	assert.Equal(t, league.Club("Detroit City"), first.Home)
	assert.Equal(t, league.Club("Chattanooga"), first.Away)
	assert.Equal(t, &league.Result{Home: 2, Away: 1}, first.Result)

	assert.Empty(t, matches[1].League)
	assert.Nil(t, matches[1].Result)
}

func TestLoadFileJSON(t *testing.T) {
	matches, err := LoadFile(write(t, "matches.json", matchesJSON))

	require.NoError(t, err)
	checkLoaded(t, matches)
}

func TestLoadFileYAML(t *testing.T) {
	matches, err := LoadFile(write(t, "matches.yml", matchesYAML))

	require.NoError(t, err)
	checkLoaded(t, matches)
}

func TestLoadFileRejectsBadRecords(t *testing.T) {
	valid := `{"date": "2019-10-05T19:30:00-04:00", "home": "A", "away": "B", "result": [1, 0]}`
	tests := []struct {
		name   string
		record string
	}{
		{"date without offset", `{"date": "2019-10-05T19:30:00", "home": "A", "away": "B"}`},
		{"date not a date", `{"date": "saturday", "home": "A", "away": "B"}`},
		{"missing away", `{"date": "2019-10-05T19:30:00Z", "home": "A"}`},
		{"club plays itself", `{"date": "2019-10-05T19:30:00Z", "home": "A", "away": "A"}`},
		{"three scores", `{"date": "2019-10-05T19:30:00Z", "home": "A", "away": "B", "result": [1, 0, 2]}`},
		{"negative score", `{"date": "2019-10-05T19:30:00Z", "home": "A", "away": "B", "result": [-1, 0]}`},
		{"league not base-36", `{"date": "2019-10-05T19:30:00Z", "league": "open cup", "home": "A", "away": "B"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := LoadFile(write(t, "matches.json", "["+valid+","+tt.record+"]"))

			assert.Nil(t, matches)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrUnparsableRecord))
			assert.Contains(t, err.Error(), "record 1")
		})
	}
}

func TestLoadFileRejectsMalformedDocument(t *testing.T) {
	_, err := LoadFile(write(t, "matches.json", `[{"date": `))

	assert.True(t, errors.Is(err, errors.ErrUnparsableRecord))
}

func TestLoadFileUnknownExtension(t *testing.T) {
	_, err := LoadFile(write(t, "matches.csv", ""))

	assert.Error(t, err)
	assert.False(t, errors.Is(err, errors.ErrUnparsableRecord))
}

func TestSaveFileRoundTrip(t *testing.T) {
	want, err := Decode([]byte(matchesJSON), JSON)
	require.NoError(t, err)

	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveFile(path, want))

			got, err := LoadFile(path)

			require.NoError(t, err)
			checkLoaded(t, got)
		})
	}
}
