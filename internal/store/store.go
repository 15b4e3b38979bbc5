package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/league"
)

// Dialect selects the SQL flavour of a Store.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) driver() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// bind returns the n-th (1-based) placeholder.
func (d Dialect) bind(n int) string {
	if d == SQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

// Store keeps matches in a SQL database.
type Store struct {
	DB      *sql.DB
	dialect Dialect
}

// New wraps an open database.
func New(db *sql.DB, d Dialect) *Store {
	return &Store{DB: db, dialect: d}
}

// Open connects to dsn. postgres:// and postgresql:// URLs use lib/pq;
// sqlite://path, file: URIs and :memory: use the pure go SQLite driver.
func Open(ctx context.Context, dsn string) (*Store, error) {
	d, source, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(d.driver(), source)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if d == SQLite {
		// every new connection to :memory: is a new database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging database")
	}
	return New(db, d), nil
}

func parseDSN(dsn string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return SQLite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return SQLite, dsn, nil
	default:
		return 0, "", errors.WithHint(
			errors.Newf("unsupported database %q", dsn),
			"use a postgres:// URL or sqlite://path")
	}
}

// Close closes the database.
func (s *Store) Close() error { return s.DB.Close() }

// Migrate creates the matches table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	id := "id SERIAL PRIMARY KEY"
	if s.dialect == SQLite {
		id = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	queries := []string{
		`CREATE TABLE IF NOT EXISTS matches (
		    ` + id + `,
		    kickoff    BIGINT NOT NULL,
		    played_at  TEXT   NOT NULL,
		    league     TEXT   NOT NULL DEFAULT '',
		    home_club  TEXT   NOT NULL,
		    away_club  TEXT   NOT NULL,
		    home_goals INT,
		    away_goals INT
		)`,
		`CREATE INDEX IF NOT EXISTS matches_kickoff ON matches (kickoff)`,
	}
	for _, q := range queries {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return errors.Wrap(err, "migrating")
		}
	}
	return nil
}

// SaveMatches inserts matches in one transaction. Nothing is written if
// any insert fails.
func (s *Store) SaveMatches(ctx context.Context, matches []league.Match) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin SaveMatches tx")
	}
	defer func() { _ = tx.Rollback() }()

	q := fmt.Sprintf(`INSERT INTO matches (kickoff, played_at, league, home_club, away_club, home_goals, away_goals)
VALUES (%s, %s, %s, %s, %s, %s, %s)`,
		s.dialect.bind(1), s.dialect.bind(2), s.dialect.bind(3), s.dialect.bind(4),
		s.dialect.bind(5), s.dialect.bind(6), s.dialect.bind(7))
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return errors.Wrap(err, "preparing insert")
	}
	defer stmt.Close()

	for i, m := range matches {
		var hg, ag sql.NullInt64
		if m.Result != nil {
			hg = sql.NullInt64{Int64: int64(m.Result.Home), Valid: true}
			ag = sql.NullInt64{Int64: int64(m.Result.Away), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			m.Date.Unix(), m.Date.Format(time.RFC3339), m.League,
			string(m.Home), string(m.Away), hg, ag,
		); err != nil {
			return errors.Wrapf(err, "inserting match %d (%s)", i, m.ScoreLine())
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit SaveMatches tx")
	}
	return nil
}

const selectMatches = `SELECT played_at, league, home_club, away_club, home_goals, away_goals FROM matches`

// LoadMatches returns every match ordered by kickoff; matches at the same
// instant keep insertion order.
func (s *Store) LoadMatches(ctx context.Context) ([]league.Match, error) {
	return s.query(ctx, selectMatches+` ORDER BY kickoff, id`)
}

// MatchesBetween returns the meetings of a and b, either way round, ordered
// by kickoff.
func (s *Store) MatchesBetween(ctx context.Context, a, b league.Club) ([]league.Match, error) {
	q := fmt.Sprintf(`%s
WHERE (home_club = %s AND away_club = %s) OR (home_club = %s AND away_club = %s)
ORDER BY kickoff, id`, selectMatches,
		s.dialect.bind(1), s.dialect.bind(2), s.dialect.bind(3), s.dialect.bind(4))
	return s.query(ctx, q, string(a), string(b), string(b), string(a))
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]league.Match, error) {
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying matches")
	}
	defer rows.Close()

	var matches []league.Match
	for rows.Next() {
		var (
			playedAt, lg, home, away string
			hg, ag                   sql.NullInt64
		)
		if err := rows.Scan(&playedAt, &lg, &home, &away, &hg, &ag); err != nil {
			return nil, errors.Wrap(err, "scanning match")
		}
		date, err := time.Parse(time.RFC3339, playedAt)
		if err != nil {
			return nil, errors.Unparsable(len(matches), err.Error())
		}
		m := league.Match{Date: date, League: lg, Home: league.Club(home), Away: league.Club(away)}
		if hg.Valid && ag.Valid {
			m.Result = &league.Result{Home: int(hg.Int64), Away: int(ag.Int64)}
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating matches")
	}
	return matches, nil
}

// DeleteAllMatches empties the matches table.
func (s *Store) DeleteAllMatches(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM matches`); err != nil {
		return errors.Wrap(err, "deleting all matches")
	}
	return nil
}
