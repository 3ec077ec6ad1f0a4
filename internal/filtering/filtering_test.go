package filtering

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/labmatch/internal/profile"
)

func sampleLabs() *profile.Organizations {
	return &profile.Organizations{Items: []*profile.Organization{
		{ID: "1", Name: "Reference Lab"},
		{ID: "2", Name: "Vision Group", AvailabilityStatus: "Available"},
		{ID: "3", Name: "Robotics Unit", AvailabilityStatus: "Unavailable"},
		{ID: "4", Name: "Networks Team", AvailabilityStatus: "Busy"},
		{ID: "5", Name: "reference lab"},
	}}
}

func TestRunDefaultChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      *Config
		expected []string
	}{
		{
			name:     "only self",
			cfg:      &Config{},
			expected: []string{"Vision Group", "Robotics Unit", "Networks Team", "reference lab"},
		},
		{
			name:     "exclude by name and id",
			cfg:      &Config{Exclude: []string{"vision group", "4"}},
			expected: []string{"Robotics Unit", "reference lab"},
		},
		{
			name:     "skip unavailable",
			cfg:      &Config{SkipUnavailable: true},
			expected: []string{"Vision Group", "Networks Team", "reference lab"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			labs := sampleLabs()
			deps := Deps{Reference: &profile.Organization{ID: "1", Name: "Reference Lab"}}

			got, err := Run(context.Background(), tt.cfg, deps, Default(tt.cfg), labs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !reflect.DeepEqual(got.Names(), tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got.Names())
			}
			if labs.Len() != 5 {
				t.Fatalf("input collection was modified: %v", labs.Names())
			}
		})
	}
}

func TestRunLogsSteps(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	deps := Deps{
		Logger:    zap.New(core),
		Reference: &profile.Organization{ID: "1", Name: "Reference Lab"},
	}

	if _, err := Run(context.Background(), &Config{}, deps, Default(nil), sampleLabs()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps := observed.FilterMessage("filter step").All()
	if len(steps) != 2 {
		t.Fatalf("expected 2 executed steps, got %d", len(steps))
	}

	self := steps[0].ContextMap()
	if self["name"] != "self" || self["dropped"] != int64(1) || self["left"] != int64(4) {
		t.Fatalf("unexpected self step fields: %v", self)
	}
}

func TestSelfFilterMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reference *profile.Organization
		expected  []string
	}{
		{
			name:      "by id keeps a namesake",
			reference: &profile.Organization{ID: "1", Name: "Reference Lab"},
			expected:  []string{"Vision Group", "Robotics Unit", "Networks Team", "reference lab"},
		},
		{
			name:      "by name without id",
			reference: &profile.Organization{Name: "REFERENCE LAB"},
			expected:  []string{"Vision Group", "Robotics Unit", "Networks Team"},
		},
		{
			name:      "unknown id drops nothing",
			reference: &profile.Organization{ID: "42", Name: "Reference Lab"},
			expected:  []string{"Reference Lab", "Vision Group", "Robotics Unit", "Networks Team", "reference lab"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, _, err := NewSelf().Apply(context.Background(), Deps{Logger: zap.NewNop(), Reference: tt.reference}, sampleLabs())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got.Names(), tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got.Names())
			}
		})
	}
}

type failingFilter struct {
	validateErr error
}

func (f *failingFilter) Name() string { return "failing" }

func (f *failingFilter) Disable(string) {}

func (f *failingFilter) IsEnabled() bool { return true }

func (f *failingFilter) Validate(*Config) error { return f.validateErr }

func (f *failingFilter) Apply(context.Context, Deps, *profile.Organizations) (*profile.Organizations, Step, error) {
	return nil, Step{}, errors.New("apply failed")
}

func TestRunPropagatesErrors(t *testing.T) {
	errInvalid := errors.New("invalid")

	_, err := Run(context.Background(), nil, Deps{}, []Filter{&failingFilter{validateErr: errInvalid}}, sampleLabs())
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = Run(context.Background(), nil, Deps{}, []Filter{&failingFilter{}}, sampleLabs())
	if err == nil || err.Error() != "failing: apply failed" {
		t.Fatalf("expected apply error, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	steps := Default(&Config{})
	DisableByName(steps, "self", "ignored")

	statuses := Describe(steps)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if statuses[0].Name != "self" || !statuses[0].Enabled {
		t.Fatalf("self filter cannot be disabled: %+v", statuses[0])
	}
	if statuses[2].Enabled || statuses[2].Reason == "" {
		t.Fatalf("expected unavailable filter to be disabled with a reason: %+v", statuses[2])
	}
}
