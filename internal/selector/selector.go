// Package selector derives the visible book list from the catalog and the
// current filter. Nothing here is stored; callers recompute on every read.
package selector

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/bookverseapp/bookverse/internal/domain"
)

// ApplyFilter returns the books matching f, in their original order.
//
// A non-empty search query keeps books whose title or author contains it,
// compared under Unicode case folding. A selected genre keeps books whose
// genre id equals it; an id no book carries yields an empty result.
// The input slice is never modified; a zero filter returns it as is.
func ApplyFilter(books []domain.Book, f domain.Filter) []domain.Book {
	if f.IsZero() {
		return books
	}

	// Casers keep internal state, so each call gets its own.
	fold := cases.Fold()
	query := fold.String(f.SearchQuery)

	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if query != "" && !matchesQuery(fold, b, query) {
			continue
		}
		if f.SelectedGenreID != nil && b.GenreID() != *f.SelectedGenreID {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesQuery(fold cases.Caser, b domain.Book, query string) bool {
	return strings.Contains(fold.String(b.Title), query) ||
		strings.Contains(fold.String(b.Author), query)
}

// Summary holds the counters shown above the grid.
type Summary struct {
	Total      int `json:"total"`
	ToRead     int `json:"toRead"`
	InProgress int `json:"inProgress"`
	Read       int `json:"read"`
}

// Summarize counts books per status. Unknown statuses count toward Total only.
func Summarize(books []domain.Book) Summary {
	s := Summary{Total: len(books)}
	for _, b := range books {
		switch b.Status {
		case domain.StatusToRead:
			s.ToRead++
		case domain.StatusInProgress:
			s.InProgress++
		case domain.StatusRead:
			s.Read++
		}
	}
	return s
}
