package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspera-non-spernit/guru/internal/league"
)

var (
	saturday = time.Date(2019, 10, 5, 19, 30, 0, 0, time.FixedZone("EDT", -4*3600))
	columns  = []string{"played_at", "league", "home_club", "away_club", "home_goals", "away_goals"}
)

func sample() []league.Match {
	return []league.Match{
		{Date: saturday, League: "nisa", Home: "Red", Away: "Blue", Result: &league.Result{Home: 2, Away: 1}},
		{Date: saturday.AddDate(0, 0, 7), Home: "Blue", Away: "Red"},
	}
}

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, Postgres), mock
}

func TestMigrate(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS matches").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS matches_kickoff").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveMatchesCommits(t *testing.T) {
	s, mock := newMock(t)
	m := sample()
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO matches .* VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)`)
	prep.ExpectExec().
		WithArgs(m[0].Date.Unix(), "2019-10-05T19:30:00-04:00", "nisa", "Red", "Blue", int64(2), int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs(m[1].Date.Unix(), "2019-10-12T19:30:00-04:00", "", "Blue", "Red", nil, nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveMatches(context.Background(), m))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveMatchesRollsBack(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO matches")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := s.SaveMatches(context.Background(), sample())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting match 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadMatches(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("SELECT played_at .* ORDER BY kickoff, id").WillReturnRows(
		sqlmock.NewRows(columns).
			AddRow("2019-10-05T19:30:00-04:00", "nisa", "Red", "Blue", 2, 1).
			AddRow("2019-10-12T19:30:00-04:00", "", "Blue", "Red", nil, nil))

	matches, err := s.LoadMatches(context.Background())

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.True(t, saturday.Equal(matches[0].Date))
	assert.Equal(t, &league.Result{Home: 2, Away: 1}, matches[0].Result)
	assert.Nil(t, matches[1].Result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchesBetweenQueriesBothWays(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("SELECT played_at .* WHERE").
		WithArgs("Red", "Blue", "Blue", "Red").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("2019-10-05T19:30:00-04:00", "", "Red", "Blue", 2, 1))

	matches, err := s.MatchesBetween(context.Background(), "Red", "Blue")

	require.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAllMatches(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("DELETE FROM matches").WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, s.DeleteAllMatches(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn     string
		dialect Dialect
		source  string
	}{
		{"postgres://guru@localhost/guru?sslmode=disable", Postgres, "postgres://guru@localhost/guru?sslmode=disable"},
		{"postgresql://localhost/guru", Postgres, "postgresql://localhost/guru"},
		{"sqlite://data/guru.db", SQLite, "data/guru.db"},
		{"file:guru.db?cache=shared", SQLite, "file:guru.db?cache=shared"},
		{":memory:", SQLite, ":memory:"},
	}
	for _, tt := range tests {
		d, source, err := parseDSN(tt.dsn)
		require.NoError(t, err, tt.dsn)
		assert.Equal(t, tt.dialect, d, tt.dsn)
		assert.Equal(t, tt.source, source, tt.dsn)
	}

	_, _, err := parseDSN("mysql://localhost")
	assert.Error(t, err)
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "sqlite://:memory:")
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(ctx))

	// stored out of order; loading sorts by kickoff
	m := sample()
	require.NoError(t, s.SaveMatches(ctx, []league.Match{m[1], m[0]}))

	got, err := s.LoadMatches(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2019-10-05T19:30:00-04:00", got[0].Date.Format(time.RFC3339))
	assert.Equal(t, m[0].Result, got[0].Result)
	assert.Equal(t, "nisa", got[0].League)
	assert.Nil(t, got[1].Result)

	between, err := s.MatchesBetween(ctx, "Blue", "Red")
	require.NoError(t, err)
	assert.Len(t, between, 2)

	require.NoError(t, s.DeleteAllMatches(ctx))
	got, err = s.LoadMatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
