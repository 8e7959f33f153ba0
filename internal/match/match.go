// Package match locates table rows whose content contains a search term and
// applies the adjacent-total rule: a row immediately following a match that
// mentions the total keyword is swept up with it, so summary lines never
// survive the rows they summarize.
package match

import (
	"sort"
	"strconv"
	"strings"

	"sheetsweep/internal/table"
)

// DefaultTotalKeyword marks the summary row that follows a group of entries.
const DefaultTotalKeyword = "total"

// Options control how Find compares cell content.
type Options struct {
	// CaseSensitive applies to the search term only. The total keyword is
	// always compared case-insensitively.
	CaseSensitive bool

	// TotalKeyword overrides DefaultTotalKeyword when non-empty.
	TotalKeyword string
}

// Find returns the table indices of every row whose display content contains
// term, plus the index of any total row immediately following a match. The
// result is deduplicated and ascending. An empty or whitespace-only term
// matches nothing. Find never modifies the table and never consults prior
// results; accumulation across searches is the queue's job.
func Find(tbl *table.Table, term string, opts Options) []int {
	term = strings.TrimSpace(term)
	if term == "" || tbl == nil || tbl.RowCount() == 0 {
		return nil
	}

	keyword := opts.TotalKeyword
	if keyword == "" {
		keyword = DefaultTotalKeyword
	}
	keyword = strings.ToLower(keyword)

	seen := make(map[int]struct{})
	for i := 0; i < tbl.RowCount(); i++ {
		if !RowMatches(tbl, i, term, opts) {
			continue
		}
		seen[i] = struct{}{}

		// The row after a match is inspected, never the match itself
		next := i + 1
		if next < tbl.RowCount() && strings.Contains(strings.ToLower(tbl.RowContent(next)), keyword) {
			seen[next] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	result := make([]int, 0, len(seen))
	for i := range seen {
		result = append(result, i)
	}
	sort.Ints(result)
	return result
}

// RowMatches reports whether the single row at index i contains term under
// the same comparison Find uses. Callers distinguishing a direct hit from an
// adjacent-total inclusion check the indices Find returned against this.
func RowMatches(tbl *table.Table, i int, term string, opts Options) bool {
	term = strings.TrimSpace(term)
	if term == "" || tbl == nil {
		return false
	}

	content := tbl.RowContent(i)
	if !opts.CaseSensitive {
		content = strings.ToLower(content)
		term = strings.ToLower(term)
	}
	return strings.Contains(content, term)
}

// ParseIndexList recognizes a term that is purely a comma-separated list of
// non-negative integers, such as "15" or "100, 101", and returns the parsed
// indices. Callers use this to let operators reference rows directly instead
// of searching; bounds checking stays with the caller. Any non-numeric part
// means the term is a search string, not a list.
func ParseIndexList(term string) ([]int, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, false
	}

	parts := strings.Split(term, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, false
		}
		indices = append(indices, n)
	}
	return indices, true
}
