package league

import (
	"sort"

	"github.com/aspera-non-spernit/guru/internal/errors"
)

// Registry maps every club of a match set to a dense index in [0, Len()).
// The index is the club's slot in one-hot features.
type Registry struct {
	index map[Club]int
	clubs []Club
}

// NewRegistry collects every home and away club in matches. With sorted the
// clubs are indexed in lexical order, which makes the assignment
// reproducible across runs; without it the order follows set iteration and
// two builds over the same data only agree on the club set.
func NewRegistry(matches []Match, sorted bool) *Registry {
	seen := make(map[Club]struct{})
	for _, m := range matches {
		seen[m.Home] = struct{}{}
		seen[m.Away] = struct{}{}
	}

	clubs := make([]Club, 0, len(seen))
	for c := range seen {
		clubs = append(clubs, c)
	}
	if sorted {
		sort.Slice(clubs, func(i, j int) bool { return clubs[i] < clubs[j] })
	}

	index := make(map[Club]int, len(clubs))
	for i, c := range clubs {
		index[c] = i
	}
	return &Registry{index: index, clubs: clubs}
}

// Index returns the slot of c. It fails with ErrMissingClub rather than
// defaulting, since a silent default would alias two clubs.
func (r *Registry) Index(c Club) (int, error) {
	i, ok := r.index[c]
	if !ok {
		return 0, errors.MissingClub(string(c))
	}
	return i, nil
}

func (r *Registry) Contains(c Club) bool {
	_, ok := r.index[c]
	return ok
}

func (r *Registry) Len() int { return len(r.clubs) }

// Clubs returns the clubs ordered by index.
func (r *Registry) Clubs() []Club {
	out := make([]Club, len(r.clubs))
	copy(out, r.clubs)
	return out
}
