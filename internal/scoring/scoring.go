// Package scoring computes a deterministic compatibility score between a reference profile
// and a candidate profile.
package scoring

import (
	"fmt"
	"strings"

	"github.com/spigell/labmatch/internal/profile"
)

// Category keys of a Breakdown.
const (
	CategoryDomain       = "domain_match"
	CategorySubDomains   = "subdomain_overlap"
	CategoryEquipment    = "equipment"
	CategoryComputing    = "computing"
	CategoryTeamSize     = "team_size"
	CategoryAvailability = "availability"
	CategoryWorkload     = "workload"
)

const (
	GradeExcellent = "Excellent"
	GradeGood      = "Good"
	GradeFair      = "Fair"
	GradePoor      = "Poor"

	MaxScore = 100
)

const (
	domainExact     = 30
	domainPartial   = 20
	domainDifferent = 5

	subDomainPerTag = 7
	subDomainCap    = 20

	equipmentSimilar    = 10
	equipmentCompatible = 5
	computingShared     = 10

	teamActive  = 10
	teamSimilar = 5
	// teamSimilarRatio is the smallest min/max headcount ratio considered a similar size.
	teamSimilarRatio = 0.5

	availabilityAvailable = 10
	availabilityBusy      = 5

	workloadLowLimit    = 70
	workloadMediumLimit = 85
	workloadLow         = 5
	workloadMedium      = 2
)

var equipmentLevels = map[string]int{
	"high":   3,
	"medium": 2,
	"low":    1,
}

// Breakdown is the result of scoring one candidate against a reference.
type Breakdown struct {
	Score   int               `json:"score" yaml:"score"`
	Grade   string            `json:"grade" yaml:"grade"`
	Details map[string]string `json:"breakdown" yaml:"breakdown"`
}

// Score rates candidate against reference on a 0..100 scale. Missing fields contribute nothing;
// scoring never fails.
func Score(reference, candidate *profile.Organization) Breakdown {
	details := make(map[string]string)
	if reference == nil || candidate == nil {
		return Breakdown{Score: 0, Grade: Grade(0), Details: details}
	}

	total := domainScore(reference, candidate, details) +
		subDomainScore(reference, candidate, details) +
		resourceScore(reference, candidate, details) +
		teamScore(reference, candidate, details) +
		availabilityScore(candidate, details)

	if total > MaxScore {
		total = MaxScore
	}

	return Breakdown{Score: total, Grade: Grade(total), Details: details}
}

// Grade maps a score onto its label. The two lowest bands share the same label.
func Grade(score int) string {
	switch {
	case score >= 80:
		return GradeExcellent
	case score >= 60:
		return GradeGood
	case score >= 40:
		return GradeFair
	case score >= 30:
		return GradePoor
	default:
		return GradePoor
	}
}

func domainScore(reference, candidate *profile.Organization, details map[string]string) int {
	ref := strings.ToLower(strings.TrimSpace(reference.Domain))
	cand := strings.ToLower(strings.TrimSpace(candidate.Domain))
	if ref == "" || cand == "" {
		return 0
	}

	switch {
	case ref == cand:
		details[CategoryDomain] = "Perfect match"
		return domainExact
	case strings.Contains(cand, ref) || strings.Contains(ref, cand):
		details[CategoryDomain] = "Partial match"
		return domainPartial
	default:
		details[CategoryDomain] = "Different domains"
		return domainDifferent
	}
}

func subDomainScore(reference, candidate *profile.Organization, details map[string]string) int {
	if strings.TrimSpace(reference.SubDomains) == "" || strings.TrimSpace(candidate.SubDomains) == "" {
		return 0
	}

	overlap := len(intersect(reference.SubDomains, candidate.SubDomains))
	if overlap == 0 {
		details[CategorySubDomains] = "No overlap"
		return 0
	}

	details[CategorySubDomains] = fmt.Sprintf("%d common sub-domains", overlap)
	return min(subDomainCap, overlap*subDomainPerTag)
}

func resourceScore(reference, candidate *profile.Organization, details map[string]string) int {
	score := 0

	if reference.EquipmentLevel != "" && candidate.EquipmentLevel != "" {
		ref := equipmentLevels[strings.ToLower(strings.TrimSpace(reference.EquipmentLevel))]
		cand := equipmentLevels[strings.ToLower(strings.TrimSpace(candidate.EquipmentLevel))]

		switch abs(ref - cand) {
		case 0:
			score += equipmentSimilar
			details[CategoryEquipment] = "Similar equipment level"
		case 1:
			score += equipmentCompatible
			details[CategoryEquipment] = "Compatible equipment"
		default:
			details[CategoryEquipment] = "Different equipment levels"
		}
	}

	if strings.TrimSpace(reference.ComputingResources) != "" && strings.TrimSpace(candidate.ComputingResources) != "" {
		shared := intersect(reference.ComputingResources, candidate.ComputingResources)
		if len(shared) > 0 {
			score += computingShared
			details[CategoryComputing] = "Shared: " + strings.Join(shared, ", ")
		} else {
			details[CategoryComputing] = "Different computing resources"
		}
	}

	return score
}

func teamScore(reference, candidate *profile.Organization, details map[string]string) int {
	ref, cand := reference.TotalResearchers, candidate.TotalResearchers
	if ref <= 0 || cand <= 0 {
		return 0
	}

	score := teamActive
	ratio := float64(min(ref, cand)) / float64(max(ref, cand))
	if ratio >= teamSimilarRatio {
		score += teamSimilar
		details[CategoryTeamSize] = "Similar team sizes"
	} else {
		details[CategoryTeamSize] = "Different team sizes"
	}
	return score
}

func availabilityScore(candidate *profile.Organization, details map[string]string) int {
	score := 0

	if status := strings.ToLower(strings.TrimSpace(candidate.AvailabilityStatus)); status != "" {
		switch status {
		case "available":
			score += availabilityAvailable
			details[CategoryAvailability] = "Currently available"
		case "busy":
			score += availabilityBusy
			details[CategoryAvailability] = "Busy but open"
		default:
			details[CategoryAvailability] = "Not available"
		}
	}

	if candidate.WorkloadScore != nil {
		switch workload := *candidate.WorkloadScore; {
		case workload < workloadLowLimit:
			score += workloadLow
			details[CategoryWorkload] = "Low workload"
		case workload < workloadMediumLimit:
			score += workloadMedium
			details[CategoryWorkload] = "Medium workload"
		default:
			details[CategoryWorkload] = "High workload"
		}
	}

	return score
}

// intersect returns the lower-cased tags present in both lists, in the order of a.
func intersect(a, b string) []string {
	other := profile.TagSet(b)

	var shared []string
	for _, tag := range profile.SplitTags(a) {
		tag = strings.ToLower(tag)
		if _, ok := other[tag]; ok {
			shared = append(shared, tag)
		}
	}
	return shared
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
