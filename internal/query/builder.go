// Package query builds the parameterized SQL used to list articles.
//
// Statements use '?' placeholders, which gorm rewrites for the active
// dialect. The SQL sticks to functions shared by PostgreSQL, MySQL and
// SQLite (LOWER, REPLACE, CONCAT, LIKE ... ESCAPE).
package query

import (
	"math"
	"strings"
)

const (
	// DefaultPageSize is used when a page size is not positive.
	DefaultPageSize = 6

	table      = "posts"
	escapeChar = "!"
)

// Filter holds the optional listing filters. Blank fields are ignored.
type Filter struct {
	Search   string
	Category string
	Tag      string
}

// Page selects a window of the result set. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	// Offset must not overflow.
	if maxNumber := math.MaxInt / p.Size; p.Number > maxNumber {
		p.Number = maxNumber
	}
	return p
}

// Statement is a SQL string with its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// ListQuery is the pair of statements needed to render one page of a listing.
type ListQuery struct {
	Filter Filter
	Page   Page
	Data   Statement
	Count  Statement
}

// BuildList translates filters and pagination into a data statement and a
// count statement sharing the same predicates and predicate arguments.
func BuildList(f Filter, p Page) ListQuery {
	f = Filter{
		Search:   strings.TrimSpace(f.Search),
		Category: strings.TrimSpace(f.Category),
		Tag:      strings.TrimSpace(f.Tag),
	}
	p = p.normalize()

	where, args := predicates(f)

	data := "SELECT * FROM " + table + where + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	dataArgs := make([]any, 0, len(args)+2)
	dataArgs = append(dataArgs, args...)
	dataArgs = append(dataArgs, p.Size, p.Offset())

	count := "SELECT COUNT(*) FROM " + table + where
	countArgs := make([]any, len(args))
	copy(countArgs, args)

	return ListQuery{
		Filter: f,
		Page:   p,
		Data:   Statement{SQL: data, Args: dataArgs},
		Count:  Statement{SQL: count, Args: countArgs},
	}
}

// predicates returns the WHERE clause (with leading space, or empty) and its arguments.
func predicates(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.Search != "" {
		pattern := "%" + EscapeLike(strings.ToLower(f.Search)) + "%"
		conds = append(conds, "(LOWER(title) LIKE ? ESCAPE '"+escapeChar+"'"+
			" OR LOWER(subtitle) LIKE ? ESCAPE '"+escapeChar+"'"+
			" OR LOWER(content) LIKE ? ESCAPE '"+escapeChar+"')")
		args = append(args, pattern, pattern, pattern)
	}

	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}

	if f.Tag != "" {
		// Wrap the list in commas and drop single spaces around separators so
		// that a tag only matches a whole entry.
		conds = append(conds, "LOWER(REPLACE(REPLACE(CONCAT(',', tags, ','), ', ', ','), ' ,', ',')) LIKE ? ESCAPE '"+escapeChar+"'")
		args = append(args, "%,"+EscapeLike(strings.ToLower(f.Tag))+",%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(
		escapeChar, escapeChar+escapeChar,
		"%", escapeChar+"%",
		"_", escapeChar+"_",
	)
	return r.Replace(s)
}

// TotalPages returns ceil(total / size).
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
