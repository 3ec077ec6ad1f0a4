package profile

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DataSourceManual   = "manual"
	DataSourceDocument = "document"

	// Conventional bounds for workload and openness scores. Values outside are reported, not rejected.
	minScoreValue = 0
	maxScoreValue = 100
)

var ErrNameRequired = errors.New("organization name is required")

// Organization is the structured profile of a research organization.
type Organization struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Domain      string `json:"domain,omitempty" yaml:"domain,omitempty" mapstructure:"domain"`
	SubDomains  string `json:"sub_domains,omitempty" yaml:"sub_domains,omitempty" mapstructure:"sub_domains"`
	LabType     string `json:"lab_type,omitempty" yaml:"lab_type,omitempty" mapstructure:"lab_type"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`
	Website     string `json:"website,omitempty" yaml:"website,omitempty" mapstructure:"website"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty" mapstructure:"country"`
	City        string `json:"city,omitempty" yaml:"city,omitempty" mapstructure:"city"`
	Institute   string `json:"institute,omitempty" yaml:"institute,omitempty" mapstructure:"institute"`

	TotalResearchers   int    `json:"total_researchers" yaml:"total_researchers" mapstructure:"total_researchers"`
	SeniorResearchers  int    `json:"senior_researchers" yaml:"senior_researchers" mapstructure:"senior_researchers"`
	PhDStudents        int    `json:"phd_students" yaml:"phd_students" mapstructure:"phd_students"`
	Interns            int    `json:"interns" yaml:"interns" mapstructure:"interns"`
	ActiveProjects     int    `json:"active_projects" yaml:"active_projects" mapstructure:"active_projects"`
	MaxProjectCapacity int    `json:"max_project_capacity" yaml:"max_project_capacity" mapstructure:"max_project_capacity"`
	WorkloadScore      *int   `json:"workload_score,omitempty" yaml:"workload_score,omitempty" mapstructure:"workload_score"`
	AvailabilityStatus string `json:"availability_status,omitempty" yaml:"availability_status,omitempty" mapstructure:"availability_status"`

	EquipmentLevel     string `json:"equipment_level,omitempty" yaml:"equipment_level,omitempty" mapstructure:"equipment_level"`
	ComputingResources string `json:"computing_resources,omitempty" yaml:"computing_resources,omitempty" mapstructure:"computing_resources"`
	FundingLevel       string `json:"funding_level,omitempty" yaml:"funding_level,omitempty" mapstructure:"funding_level"`

	CollaborationInterests    string `json:"collaboration_interests,omitempty" yaml:"collaboration_interests,omitempty" mapstructure:"collaboration_interests"`
	PreferredDomains          string `json:"preferred_domains,omitempty" yaml:"preferred_domains,omitempty" mapstructure:"preferred_domains"`
	CollaborationHistoryCount int    `json:"collaboration_history_count" yaml:"collaboration_history_count" mapstructure:"collaboration_history_count"`
	OpennessScore             *int   `json:"openness_score,omitempty" yaml:"openness_score,omitempty" mapstructure:"openness_score"`

	DataSource string `json:"data_source,omitempty" yaml:"data_source,omitempty" mapstructure:"data_source"`
	Verified   bool   `json:"verified" yaml:"verified" mapstructure:"verified"`
}

// Validate checks the only hard requirement of a profile: a non-empty name.
func (o *Organization) Validate() error {
	if o == nil || strings.TrimSpace(o.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// ScoreWarnings lists conventional-range violations of workload and openness scores.
func (o *Organization) ScoreWarnings() []string {
	var warnings []string
	check := func(field string, v *int) {
		if v == nil {
			return
		}
		if *v < minScoreValue || *v > maxScoreValue {
			warnings = append(warnings, fmt.Sprintf("%s %d is outside %d..%d", field, *v, minScoreValue, maxScoreValue))
		}
	}
	check("workload_score", o.WorkloadScore)
	check("openness_score", o.OpennessScore)
	return warnings
}

// Label returns a human readable identifier for logs.
func (o *Organization) Label() string {
	if o.ID == "" {
		return o.Name
	}
	return fmt.Sprintf("%s (%s)", o.Name, o.ID)
}

// IntPtr is a small helper for optional score fields.
func IntPtr(v int) *int {
	return &v
}
