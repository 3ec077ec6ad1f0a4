package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// rule is a single heuristic: when pattern matches, the capture group is passed through post.
// Rule lists are evaluated in order and the first match wins.
type rule struct {
	pattern *regexp.Regexp
	group   int
	post    func(string) string
}

func firstMatch(text string, rules []rule) (string, bool) {
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		value := strings.TrimSpace(m[r.group])
		if r.post != nil {
			value = r.post(value)
		}
		if value == "" {
			continue
		}
		return value, true
	}
	return "", false
}

func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

// labType singularizes the matched lab kind before title-casing it.
func labType(s string) string {
	s = strings.ToLower(s)
	switch {
	case strings.HasSuffix(s, "ies"):
		s = strings.TrimSuffix(s, "ies") + "y"
	case strings.HasSuffix(s, "s"):
		s = strings.TrimSuffix(s, "s")
	}
	return titleCase(s)
}

func constant(v string) func(string) string {
	return func(string) string { return v }
}

func trimWebsite(s string) string {
	return strings.TrimRight(s, ".)]}")
}

func labeled(field string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(field) + `\s*:[ \t]*([^\n,;]+)`)
}

var (
	labTypeRules = []rule{
		{pattern: regexp.MustCompile(`(?i)\b(research laborator(?:y|ies)|laborator(?:y|ies)|labs?|institutes?)\b`), group: 1, post: labType},
	}

	seniorRules = []rule{
		{pattern: regexp.MustCompile(`(?i)(\d+)\s+senior\s+researchers`), group: 1},
	}
	phdRules = []rule{
		{pattern: regexp.MustCompile(`(?i)(\d+)\s+(?:phd|ph\.d\.?)\s+(?:scholars|students)`), group: 1},
	}
	internRules = []rule{
		{pattern: regexp.MustCompile(`(?i)(\d+)\s+(?:research\s+)?interns`), group: 1},
	}
	totalRules = []rule{
		{pattern: regexp.MustCompile(`(?i)(\d+)\s+researchers\s+in\s+total`), group: 1},
	}

	activeProjectsRules     = phraseRules(ActiveProjectsPhrases)
	maxProjectCapacityRules = phraseRules(MaxProjectCapacityPhrases)
	workloadScoreRules      = phraseRules(WorkloadScorePhrases)

	equipmentRules = levelRules("equipment")
	fundingRules   = levelRules("funding")

	emailRules = []rule{
		{pattern: regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), group: 0},
	}
	websiteRules = []rule{
		{pattern: regexp.MustCompile(`https?://[^\s<>"']+`), group: 0, post: trimWebsite},
	}

	countryRules = append(
		[]rule{{pattern: labeled("country"), group: 1}},
		countryFallbackRules()...,
	)
	cityRules = []rule{
		{pattern: labeled("city"), group: 1},
		{pattern: regexp.MustCompile(`\bin\s+([A-Z][\p{L}'-]*(?:\s+[A-Z][\p{L}'-]*)*),\s*[A-Z][\p{L}]+`), group: 1},
	}
	instituteRules = []rule{
		{pattern: regexp.MustCompile(`(?i)\binstitute\s*:[ \t]*([^\n;]+)`), group: 1},
		{pattern: regexp.MustCompile(`\b(?:at|under)\s+(?:the\s+)?((?:[A-Z][\p{L}'-]*\s+)+University)\b`), group: 1},
	}

	availabilityRules = []rule{
		{pattern: regexp.MustCompile(`(?i)\bavailable\b`), group: 0, post: constant(statusAvailable)},
		{pattern: regexp.MustCompile(`(?i)\bunavailable\b`), group: 0, post: constant(statusUnavailable)},
	}
)

// phraseRules builds "phrase <digits>" then "<digits> phrase" rules for every phrase.
func phraseRules(phrases []string) []rule {
	rules := make([]rule, 0, len(phrases)*2)
	for _, phrase := range phrases {
		quoted := strings.ReplaceAll(regexp.QuoteMeta(phrase), " ", `\s+`)
		rules = append(rules,
			rule{pattern: regexp.MustCompile(`(?i)\b` + quoted + `\s*(?:[:=]|of|is)?\s*(\d+)`), group: 1},
			rule{pattern: regexp.MustCompile(`(?i)(\d+)\s+` + quoted + `\b`), group: 1},
		)
	}
	return rules
}

func levelRules(keyword string) []rule {
	return []rule{
		{pattern: regexp.MustCompile(`(?i)` + keyword + `.*?\b(high|medium|low)\b`), group: 1, post: titleCase},
	}
}

func countryFallbackRules() []rule {
	rules := make([]rule, 0, len(Countries))
	for _, country := range Countries {
		rules = append(rules, rule{
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(country) + `\b`),
			group:   0,
			post:    strings.ToUpper,
		})
	}
	return rules
}
