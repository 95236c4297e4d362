package store

import "github.com/bookverseapp/bookverse/internal/domain"

// Action is a state change request handled by the slice reducers.
type Action interface {
	actionName() string
}

// BooksLoaded replaces the book slice with a fetch result.
// Seq is the gateway sequence number of the response.
type BooksLoaded struct {
	Books []domain.Book
	Seq   uint64
}

// GenresLoaded replaces the genre slice with a fetch result.
type GenresLoaded struct {
	Genres []domain.Genre
	Seq    uint64
}

// SetSearchQuery replaces the search text.
type SetSearchQuery struct {
	Query string
}

// SetSelectedGenre replaces the selected genre. A nil GenreID selects all genres.
type SetSelectedGenre struct {
	GenreID *int64
}

// ResetFilters clears the search text and the genre selection.
type ResetFilters struct{}

func (BooksLoaded) actionName() string      { return "books/loaded" }
func (GenresLoaded) actionName() string     { return "genres/loaded" }
func (SetSearchQuery) actionName() string   { return "filter/setSearchQuery" }
func (SetSelectedGenre) actionName() string { return "filter/setSelectedGenre" }
func (ResetFilters) actionName() string     { return "filter/reset" }

// Name returns the action type, e.g. "filter/setSearchQuery".
func Name(a Action) string {
	return a.actionName()
}
