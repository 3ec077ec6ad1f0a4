package scoring

import (
	"cmp"
	"slices"

	"github.com/spigell/labmatch/internal/profile"
)

// Scored pairs a candidate with its breakdown.
type Scored struct {
	Organization *profile.Organization `json:"lab" yaml:"lab"`
	Breakdown    Breakdown             `json:"score" yaml:"score"`
}

// Rank scores every candidate against reference and orders them by score descending.
// Equal scores are ordered by candidate ID, then by name, so identical inputs always
// produce the same order.
func Rank(reference *profile.Organization, candidates []*profile.Organization) []Scored {
	ranked := make([]Scored, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		ranked = append(ranked, Scored{
			Organization: candidate,
			Breakdown:    Score(reference, candidate),
		})
	}

	slices.SortStableFunc(ranked, func(a, b Scored) int {
		if c := cmp.Compare(b.Breakdown.Score, a.Breakdown.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Organization.ID, b.Organization.ID); c != 0 {
			return c
		}
		return cmp.Compare(a.Organization.Name, b.Organization.Name)
	})

	return ranked
}

// Top returns at most k leading entries of ranked. A non-positive k returns everything.
func Top(ranked []Scored, k int) []Scored {
	if k <= 0 || k >= len(ranked) {
		return ranked
	}
	return ranked[:k]
}
