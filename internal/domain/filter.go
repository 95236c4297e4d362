package domain

// Filter is the transient dashboard filter.
// A nil SelectedGenreID means "All Genres".
type Filter struct {
	SelectedGenreID *int64 `json:"selectedGenreId"`
	SearchQuery     string `json:"searchQuery"`
}

// IsZero reports whether the filter selects every book.
func (f Filter) IsZero() bool {
	return f.SearchQuery == "" && f.SelectedGenreID == nil
}

// GenreID returns a pointer to a copy of id, for building filters.
func GenreID(id int64) *int64 {
	return &id
}
