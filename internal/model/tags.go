package model

import "strings"

// SplitTags splits a comma-delimited tag string, trimming whitespace and
// dropping blanks and repeats. Order of first appearance is kept.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// JoinTags is the inverse of SplitTags and produces the stored form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// NormalizeTags rewrites a user supplied tag string into the stored form.
func NormalizeTags(raw string) string {
	return JoinTags(SplitTags(raw))
}
