package profile

import "strings"

const (
	OrganizationIDField     = "ID"
	OrganizationNameField   = "Name"
	OrganizationStatusField = "AvailabilityStatus"
)

// Organizations is an ordered collection of candidate profiles.
type Organizations struct {
	Items []*Organization `json:"labs" yaml:"labs"`
}

func (o *Organizations) Len() int {
	return len(o.Items)
}

func (o *Organizations) Names() []string {
	names := make([]string, 0, len(o.Items))
	for _, org := range o.Items {
		names = append(names, org.Name)
	}
	return names
}

func (o *Organizations) FindByID(id string) *Organization {
	for _, org := range o.Items {
		if org.ID == id {
			return org
		}
	}
	return nil
}

// FindByName matches names case-insensitively.
func (o *Organizations) FindByName(name string) *Organization {
	for _, org := range o.Items {
		if strings.EqualFold(org.Name, name) {
			return org
		}
	}
	return nil
}

func (org *Organization) GetStringField(name string) string {
	switch name {
	case OrganizationIDField:
		return org.ID
	case OrganizationNameField:
		return org.Name
	case OrganizationStatusField:
		return org.AvailabilityStatus
	default:
		return ""
	}
}

// Exclude removes every organization whose field matches one of targets (case-insensitive)
// and returns the labels of the removed entries. Order of the remaining items is preserved.
func (o *Organizations) Exclude(field string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	lookup := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		target = strings.ToLower(strings.TrimSpace(target))
		if target != "" {
			lookup[target] = struct{}{}
		}
	}

	var excluded []string
	kept := o.Items[:0]
	for _, org := range o.Items {
		if _, ok := lookup[strings.ToLower(strings.TrimSpace(org.GetStringField(field)))]; ok {
			excluded = append(excluded, org.Label())
			continue
		}
		kept = append(kept, org)
	}
	o.Items = kept

	return excluded
}
