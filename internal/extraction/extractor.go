// Package extraction turns free text into a partially filled organization profile.
//
// Every field is produced by an independent heuristic. Heuristics never fail: when nothing
// matches, the field stays null (or zero for counters). The output is deterministic, so
// extracting the same text twice yields identical results.
package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/labmatch/internal/profile"
)

var paragraphSeparator = regexp.MustCompile(`\n[ \t\r]*\n`)

// Extract runs all field heuristics over text.
func Extract(text string) *profile.ExtractionResult {
	lower := strings.ToLower(text)

	senior := count(text, seniorRules)
	phd := count(text, phdRules)
	interns := count(text, internRules)
	total, ok := matchInt(text, totalRules)
	if !ok {
		total = senior + phd + interns
	}

	subDomains := subDomains(lower)

	res := &profile.ExtractionResult{
		Name:        name(text),
		Description: description(text),
		Domain:      domain(lower),
		SubDomains:  subDomains,
		LabType:     match(text, labTypeRules),
		Email:       match(text, emailRules),
		Website:     match(text, websiteRules),
		Country:     match(text, countryRules),
		City:        match(text, cityRules),
		Institute:   match(text, instituteRules),

		TotalResearchers:   &total,
		SeniorResearchers:  &senior,
		PhDStudents:        &phd,
		Interns:            &interns,
		ActiveProjects:     intPtr(count(text, activeProjectsRules)),
		MaxProjectCapacity: intPtr(count(text, maxProjectCapacityRules)),
		WorkloadScore:      intPtr(count(text, workloadScoreRules)),
		AvailabilityStatus: match(text, availabilityRules),

		EquipmentLevel:     match(text, equipmentRules),
		ComputingResources: computingResources(lower),
		FundingLevel:       match(text, fundingRules),

		CollaborationInterests: collaborationInterests(lower),
		PreferredDomains:       preferredDomains(lower, subDomains),

		Confidence: profile.ConfidenceMedium,
	}

	return res
}

// name returns the first short, capitalized line among the first non-empty lines that
// does not look like contact details.
func name(text string) *string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > nameScanLines {
			break
		}

		lower := strings.ToLower(line)
		if strings.Contains(line, "@") || strings.Contains(lower, "http") {
			continue
		}
		if len(strings.Fields(line)) > nameMaxWords {
			continue
		}

		first, _ := utf8.DecodeRuneInString(line)
		if unicode.IsUpper(first) {
			return &line
		}
	}
	return nil
}

func description(text string) *string {
	for _, paragraph := range paragraphSeparator.Split(text, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if utf8.RuneCountInString(paragraph) > descriptionMinLength {
			return &paragraph
		}
	}
	return nil
}

func domain(lower string) *string {
	for _, keyword := range DomainKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			kw := keyword
			return &kw
		}
	}
	return nil
}

func subDomains(lower string) *string {
	var found []string
	for _, keyword := range DomainKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			found = append(found, keyword)
		}
	}
	if len(found) == 0 {
		return nil
	}
	joined := profile.JoinTags(found)
	return &joined
}

func preferredDomains(lower string, subDomains *string) *string {
	if subDomains == nil || !containsAny(lower, preferredDomainsMarkers) {
		return nil
	}
	v := *subDomains
	return &v
}

func computingResources(lower string) *string {
	var tags []string
	for _, tag := range ComputingTags {
		if containsAny(lower, tag.Hints) {
			tags = append(tags, tag.Tag)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	joined := profile.JoinTags(tags)
	return &joined
}

func collaborationInterests(lower string) *string {
	if !containsAny(lower, collaborationMarkers) {
		return nil
	}
	v := collaborationInterest
	return &v
}

func match(text string, rules []rule) *string {
	value, ok := firstMatch(text, rules)
	if !ok {
		return nil
	}
	return &value
}

func matchInt(text string, rules []rule) (int, bool) {
	value, ok := firstMatch(text, rules)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// count is matchInt defaulting to zero.
func count(text string, rules []rule) int {
	n, _ := matchInt(text, rules)
	return n
}

func containsAny(lower string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

func intPtr(v int) *int {
	return &v
}
