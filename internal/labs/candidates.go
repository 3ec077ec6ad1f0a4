package labs

import (
	"context"

	"github.com/spigell/labmatch/internal/filtering"
	"github.com/spigell/labmatch/internal/profile"
)

// Candidates loads the reference and the candidate labs and runs the default filter chain.
// The reference is nil when none is configured; ranking reports that to the caller.
func (s *Store) Candidates(ctx context.Context, cfg *filtering.Config) (*profile.Organization, []*profile.Organization, error) {
	reference, err := s.Reference()
	if err != nil {
		return nil, nil, err
	}

	orgs, err := s.Labs()
	if err != nil {
		return nil, nil, err
	}

	if cfg == nil {
		cfg = &filtering.Config{}
	}

	filtered, err := filtering.Run(ctx, cfg, filtering.Deps{Logger: s.logger, Reference: reference}, filtering.Default(cfg), orgs)
	if err != nil {
		return nil, nil, err
	}

	return reference, filtered.Items, nil
}
