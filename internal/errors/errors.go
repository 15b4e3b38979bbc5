// Package errors provides error handling for guru.
//
// It re-exports github.com/cockroachdb/errors so callers get stack traces,
// wrapping and hints through a single import, and it defines the sentinel
// errors the feature pipeline can fail with.
//
// Usage:
//
//	if err := ledger.Update(m); err != nil {
//	    return errors.Wrapf(err, "match %d", i)
//	}
//
//	var missing *errors.MissingClubError
//	if errors.As(err, &missing) {
//	    // registry and match set disagree
//	}
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors of the feature pipeline. Wrap them to add context; check
// them with Is.
var (
	// ErrMissingClub means a club was queried that the registry or ledger
	// does not know. The registry and the match set are out of sync.
	ErrMissingClub = New("club not in registry")

	// ErrLedgerInvariant means a club's score log no longer matches its
	// games-played counter.
	ErrLedgerInvariant = New("ledger invariant violated")

	// ErrUnparsableRecord means a persisted match could not be decoded.
	ErrUnparsableRecord = New("unparsable match record")

	// ErrInvalidTrainingParams means momentum or rate is outside [0, 1].
	ErrInvalidTrainingParams = New("invalid training parameters")

	// ErrEmptyDataset means an operation needs at least one match or sample.
	ErrEmptyDataset = New("empty dataset")

	// ErrModelShape means a vector does not fit the model's layer sizes.
	ErrModelShape = New("vector does not match model shape")

	// ErrOutOfOrder means a generator was fed a match dated before one it
	// already processed.
	ErrOutOfOrder = New("match out of chronological order")
)

// MissingClubError reports the club that could not be resolved.
type MissingClubError struct {
	Club string
}

func (e *MissingClubError) Error() string {
	return fmt.Sprintf("club %q not in registry", e.Club)
}

func (e *MissingClubError) Unwrap() error { return ErrMissingClub }

// MissingClub returns a MissingClubError with a stack attached.
func MissingClub(club string) error {
	return WithStack(&MissingClubError{Club: club})
}

// InvariantError reports a club whose score log length and games-played
// counter disagree on one side.
type InvariantError struct {
	Club   string
	Side   string
	Len    int
	Played int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("club %q: %s scores len %d != games played %d", e.Club, e.Side, e.Len, e.Played)
}

func (e *InvariantError) Unwrap() error { return ErrLedgerInvariant }

// Unparsable wraps ErrUnparsableRecord with the record index and reason.
func Unparsable(index int, reason string) error {
	return Wrapf(ErrUnparsableRecord, "record %d: %s", index, reason)
}
