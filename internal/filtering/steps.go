package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/labmatch/internal/profile"
)

const statusUnavailable = "unavailable"

type selfFilter struct{}

// NewSelf creates a filter that removes the reference lab from its own candidates.
func NewSelf() Filter {
	return &selfFilter{}
}

func (f *selfFilter) Name() string { return "self" }

func (f *selfFilter) Disable(string) {}

func (f *selfFilter) IsEnabled() bool { return true }

func (f *selfFilter) Validate(*Config) error { return nil }

func (f *selfFilter) Apply(_ context.Context, deps Deps, v *profile.Organizations) (*profile.Organizations, Step, error) {
	initial := v.Len()
	if deps.Reference == nil {
		return v, Step{Initial: initial, Dropped: 0, Left: v.Len()}, nil
	}

	// An identified reference is matched by ID only, so a lab sharing just its name stays a candidate.
	var excluded []string
	if id := strings.TrimSpace(deps.Reference.ID); id != "" {
		excluded = v.Exclude(profile.OrganizationIDField, []string{id})
	} else {
		excluded = v.Exclude(profile.OrganizationNameField, []string{deps.Reference.Name})
	}

	if len(excluded) > 0 {
		deps.Logger.Info("excluding the reference lab from candidates",
			zap.Strings("excluded_labs", excluded),
			zap.Int("labs_left", v.Len()),
		)
	}

	return v, Step{Initial: initial, Dropped: len(excluded), Left: v.Len()}, nil
}

type excludedFilter struct {
	targets []string
}

// NewExcluded creates a filter that removes labs listed in the configuration by name or ID.
func NewExcluded() Filter {
	return &excludedFilter{}
}

func (f *excludedFilter) Name() string { return "excluded" }

func (f *excludedFilter) Disable(string) {}

func (f *excludedFilter) IsEnabled() bool { return true }

func (f *excludedFilter) Validate(cfg *Config) error {
	f.targets = nil
	if cfg != nil {
		f.targets = append(f.targets, cfg.Exclude...)
	}
	return nil
}

func (f *excludedFilter) Apply(_ context.Context, deps Deps, v *profile.Organizations) (*profile.Organizations, Step, error) {
	initial := v.Len()
	if len(f.targets) == 0 {
		return v, Step{Initial: initial, Dropped: 0, Left: v.Len()}, nil
	}

	excluded := v.Exclude(profile.OrganizationIDField, f.targets)
	excluded = append(excluded, v.Exclude(profile.OrganizationNameField, f.targets)...)

	if len(excluded) > 0 {
		deps.Logger.Info("excluding labs by configuration",
			zap.Strings("excluded_targets", f.targets),
			zap.Strings("excluded_labs", excluded),
			zap.Int("labs_left", v.Len()),
		)
	}

	return v, Step{Initial: initial, Dropped: len(excluded), Left: v.Len()}, nil
}

func (f *excludedFilter) Status() Status {
	details := map[string]string{}
	if len(f.targets) > 0 {
		details["targets"] = strings.Join(f.targets, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type unavailableFilter struct {
	disabled bool
	reason   string
}

// NewUnavailable creates a filter that removes labs whose availability status is "unavailable".
// The step is disabled unless enabled is set.
func NewUnavailable(enabled bool) Filter {
	f := &unavailableFilter{}
	if !enabled {
		f.Disable("skip-unavailable is not set")
	}
	return f
}

func (f *unavailableFilter) Name() string { return "unavailable" }

func (f *unavailableFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *unavailableFilter) IsEnabled() bool { return !f.disabled }

func (f *unavailableFilter) Validate(*Config) error { return nil }

func (f *unavailableFilter) Apply(_ context.Context, deps Deps, v *profile.Organizations) (*profile.Organizations, Step, error) {
	initial := v.Len()

	excluded := v.Exclude(profile.OrganizationStatusField, []string{statusUnavailable})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding unavailable labs",
			zap.Strings("excluded_labs", excluded),
			zap.Int("labs_left", v.Len()),
		)
	}

	return v, Step{Initial: initial, Dropped: len(excluded), Left: v.Len()}, nil
}

func (f *unavailableFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
