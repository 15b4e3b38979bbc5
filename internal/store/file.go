// Package store persists matches: JSON and YAML match files, and a SQL
// store for Postgres or SQLite.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/league"
)

// Format is a match file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", errors.Newf("unknown match file extension %q", filepath.Ext(path))
	}
}

// record is one match as written in a match file. A missing result marks
// a fixture still to be played.
type record struct {
	Date   string `json:"date" yaml:"date"`
	League string `json:"league,omitempty" yaml:"league,omitempty"`
	Home   string `json:"home" yaml:"home"`
	Away   string `json:"away" yaml:"away"`
	Result []int  `json:"result,omitempty" yaml:"result,omitempty,flow"`
}

// LoadFile reads a JSON or YAML match file. A malformed record fails the
// whole load with ErrUnparsableRecord; no partial set is returned.
func LoadFile(path string) ([]league.Match, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	matches, err := Decode(data, f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return matches, nil
}

// Decode parses a list of match records.
func Decode(data []byte, f Format) ([]league.Match, error) {
	var recs []record
	var err error
	switch f {
	case JSON:
		err = json.Unmarshal(data, &recs)
	case YAML:
		err = yaml.Unmarshal(data, &recs)
	default:
		return nil, errors.Newf("unknown match file format %q", f)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnparsableRecord, "decoding %s: %v", f, err)
	}

	matches := make([]league.Match, 0, len(recs))
	for i, r := range recs {
		m, err := r.match()
		if err != nil {
			return nil, errors.Unparsable(i, err.Error())
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (r record) match() (league.Match, error) {
	date, err := time.Parse(time.RFC3339, strings.TrimSpace(r.Date))
	if err != nil {
		return league.Match{}, errors.Newf("date %q is not RFC3339 with an offset", r.Date)
	}
	home, away := strings.TrimSpace(r.Home), strings.TrimSpace(r.Away)
	switch {
	case home == "" || away == "":
		return league.Match{}, errors.New("home and away clubs are required")
	case home == away:
		return league.Match{}, errors.Newf("club %q cannot play itself", home)
	}
	if _, err := league.LabelValue(r.League); err != nil {
		return league.Match{}, err
	}
	m := league.Match{Date: date, League: r.League, Home: league.Club(home), Away: league.Club(away)}
	if r.Result != nil {
		if len(r.Result) != 2 {
			return league.Match{}, errors.Newf("result has %d values, want 2", len(r.Result))
		}
		if r.Result[0] < 0 || r.Result[1] < 0 {
			return league.Match{}, errors.Newf("result %v has a negative score", r.Result)
		}
		m.Result = &league.Result{Home: r.Result[0], Away: r.Result[1]}
	}
	return m, nil
}

// Encode writes matches as a list of records.
func Encode(matches []league.Match, f Format) ([]byte, error) {
	recs := make([]record, len(matches))
	for i, m := range matches {
		recs[i] = record{
			Date:   m.Date.Format(time.RFC3339),
			League: m.League,
			Home:   string(m.Home),
			Away:   string(m.Away),
		}
		if m.Result != nil {
			recs[i].Result = []int{m.Result.Home, m.Result.Away}
		}
	}
	switch f {
	case JSON:
		return json.MarshalIndent(recs, "", "  ")
	case YAML:
		return yaml.Marshal(recs)
	default:
		return nil, errors.Newf("unknown match file format %q", f)
	}
}

// SaveFile writes matches to path in the format its extension names.
func SaveFile(path string, matches []league.Match) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(matches, f)
	if err != nil {
		return errors.Wrap(err, "encoding matches")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
