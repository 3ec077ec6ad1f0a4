package extraction

// DomainKeywords is checked in order: the first hit becomes the primary domain,
// every hit becomes a sub-domain.
var DomainKeywords = []string{
	"Artificial Intelligence",
	"Machine Learning",
	"Data Science",
	"Robotics",
	"Cybersecurity",
	"Networks",
	"Bioinformatics",
	"Cloud Computing",
	"Internet of Things",
	"Computer Vision",
	"Natural Language Processing",
}

// Countries is the fallback list for the country field; matches are upper-cased.
var Countries = []string{
	"United States",
	"USA",
	"United Kingdom",
	"UK",
	"Canada",
	"France",
	"Germany",
	"Spain",
	"Italy",
	"Tunisia",
	"Morocco",
	"Algeria",
	"Egypt",
	"India",
	"China",
	"Japan",
	"Australia",
}

// ComputingTag maps a tag onto the lower-case hints that reveal it.
type ComputingTag struct {
	Tag   string
	Hints []string
}

var ComputingTags = []ComputingTag{
	{Tag: "GPU", Hints: []string{"gpu"}},
	{Tag: "Cloud", Hints: []string{"cloud"}},
	{Tag: "HPC", Hints: []string{"hpc", "cluster"}},
}

// Trigger phrases for generic integer fields, in priority order.
var (
	ActiveProjectsPhrases     = []string{"active projects", "ongoing projects", "current projects"}
	MaxProjectCapacityPhrases = []string{"maximum project capacity", "max project capacity", "project capacity", "maximum projects"}
	WorkloadScorePhrases      = []string{"workload score", "workload"}
)

var (
	preferredDomainsMarkers = []string{"preferred domains", "open to collaboration"}
	collaborationMarkers    = []string{"collaborat", "partner"}
)

const (
	collaborationInterest = "Open to collaboration"
	statusAvailable       = "Available"
	statusUnavailable     = "Unavailable"

	nameScanLines = 5
	nameMaxWords  = 12

	descriptionMinLength = 50
)
