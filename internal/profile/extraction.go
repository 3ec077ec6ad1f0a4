package profile

const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// ExtractionResult is a profile produced by heuristics. Every field is independently nullable
// so a reviewer can tell "not found" from "found empty".
type ExtractionResult struct {
	Name        *string `json:"name" yaml:"name"`
	Description *string `json:"description" yaml:"description"`
	Domain      *string `json:"domain" yaml:"domain"`
	SubDomains  *string `json:"sub_domains" yaml:"sub_domains"`
	LabType     *string `json:"lab_type" yaml:"lab_type"`
	Email       *string `json:"email" yaml:"email"`
	Website     *string `json:"website" yaml:"website"`
	Country     *string `json:"country" yaml:"country"`
	City        *string `json:"city" yaml:"city"`
	Institute   *string `json:"institute" yaml:"institute"`

	TotalResearchers   *int    `json:"total_researchers" yaml:"total_researchers"`
	SeniorResearchers  *int    `json:"senior_researchers" yaml:"senior_researchers"`
	PhDStudents        *int    `json:"phd_students" yaml:"phd_students"`
	Interns            *int    `json:"interns" yaml:"interns"`
	ActiveProjects     *int    `json:"active_projects" yaml:"active_projects"`
	MaxProjectCapacity *int    `json:"max_project_capacity" yaml:"max_project_capacity"`
	WorkloadScore      *int    `json:"workload_score" yaml:"workload_score"`
	AvailabilityStatus *string `json:"availability_status" yaml:"availability_status"`

	EquipmentLevel     *string `json:"equipment_level" yaml:"equipment_level"`
	ComputingResources *string `json:"computing_resources" yaml:"computing_resources"`
	FundingLevel       *string `json:"funding_level" yaml:"funding_level"`

	CollaborationInterests *string `json:"collaboration_interests" yaml:"collaboration_interests"`
	PreferredDomains       *string `json:"preferred_domains" yaml:"preferred_domains"`

	Confidence string `json:"confidence" yaml:"confidence"`
}

// ToOrganization converts a reviewed extraction into a profile. The caller decides whether
// the result is persisted; a missing name leaves the profile invalid.
func (r *ExtractionResult) ToOrganization() *Organization {
	if r == nil {
		return nil
	}

	return &Organization{
		Name:                   str(r.Name),
		Description:            str(r.Description),
		Domain:                 str(r.Domain),
		SubDomains:             str(r.SubDomains),
		LabType:                str(r.LabType),
		Email:                  str(r.Email),
		Website:                str(r.Website),
		Country:                str(r.Country),
		City:                   str(r.City),
		Institute:              str(r.Institute),
		TotalResearchers:       num(r.TotalResearchers),
		SeniorResearchers:      num(r.SeniorResearchers),
		PhDStudents:            num(r.PhDStudents),
		Interns:                num(r.Interns),
		ActiveProjects:         num(r.ActiveProjects),
		MaxProjectCapacity:     num(r.MaxProjectCapacity),
		WorkloadScore:          copyInt(r.WorkloadScore),
		AvailabilityStatus:     str(r.AvailabilityStatus),
		EquipmentLevel:         str(r.EquipmentLevel),
		ComputingResources:     str(r.ComputingResources),
		FundingLevel:           str(r.FundingLevel),
		CollaborationInterests: str(r.CollaborationInterests),
		PreferredDomains:       str(r.PreferredDomains),
		DataSource:             DataSourceDocument,
	}
}

// Filled counts the non-null fields, used for ingestion logs.
func (r *ExtractionResult) Filled() int {
	count := 0
	for _, s := range []*string{
		r.Name, r.Description, r.Domain, r.SubDomains, r.LabType, r.Email, r.Website, r.Country,
		r.City, r.Institute, r.AvailabilityStatus, r.EquipmentLevel, r.ComputingResources,
		r.FundingLevel, r.CollaborationInterests, r.PreferredDomains,
	} {
		if s != nil {
			count++
		}
	}
	for _, n := range []*int{
		r.TotalResearchers, r.SeniorResearchers, r.PhDStudents, r.Interns,
		r.ActiveProjects, r.MaxProjectCapacity, r.WorkloadScore,
	} {
		if n != nil && *n != 0 {
			count++
		}
	}
	return count
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func copyInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}
