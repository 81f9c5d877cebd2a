package query

import "newsroom/internal/model"

// CategoriesStatement lists the distinct non-empty categories.
func CategoriesStatement() Statement {
	return Statement{
		SQL: "SELECT DISTINCT category FROM " + table +
			" WHERE category IS NOT NULL AND category <> '' ORDER BY category",
	}
}

// TagsStatement lists every non-empty tags field, newest article first.
func TagsStatement() Statement {
	return Statement{
		SQL: "SELECT tags FROM " + table +
			" WHERE tags IS NOT NULL AND tags <> '' ORDER BY created_at DESC, id DESC",
	}
}

// FlattenTags splits every tags field on commas and returns the
// de-duplicated set in order of first appearance.
func FlattenTags(rows []string) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0, len(rows))
	for _, row := range rows {
		for _, tag := range model.SplitTags(row) {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}
