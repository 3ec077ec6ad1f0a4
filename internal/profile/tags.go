package profile

import "strings"

const tagSeparator = ", "

// SplitTags splits a comma-joined tag list into trimmed tags, dropping empty entries and
// case-insensitive duplicates while keeping the first-seen order.
func SplitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}

// JoinTags is the inverse of SplitTags.
func JoinTags(tags []string) string {
	return strings.Join(SplitTags(strings.Join(tags, ",")), tagSeparator)
}

// TagSet returns the lower-cased set of tags in s.
func TagSet(s string) map[string]struct{} {
	tags := SplitTags(s)
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[strings.ToLower(tag)] = struct{}{}
	}
	return set
}
