package store

import "github.com/bookverseapp/bookverse/internal/domain"

// BooksState is the books slice: the last accepted fetch result.
type BooksState struct {
	Items  []domain.Book
	Seq    uint64
	Loaded bool
}

// GenresState is the genres slice.
type GenresState struct {
	Items  []domain.Genre
	Seq    uint64
	Loaded bool
}

// State is a snapshot of every slice. Slices inside are replaced, never
// modified in place, so a snapshot stays valid after later dispatches.
type State struct {
	Filter domain.Filter
	Books  BooksState
	Genres GenresState
}

// reduceBooks accepts a result only if it is newer than the one applied.
func reduceBooks(s BooksState, a Action) BooksState {
	loaded, ok := a.(BooksLoaded)
	if !ok {
		return s
	}
	if s.Loaded && loaded.Seq <= s.Seq {
		return s
	}
	return BooksState{Items: loaded.Books, Seq: loaded.Seq, Loaded: true}
}

func reduceGenres(s GenresState, a Action) GenresState {
	loaded, ok := a.(GenresLoaded)
	if !ok {
		return s
	}
	if s.Loaded && loaded.Seq <= s.Seq {
		return s
	}
	return GenresState{Items: loaded.Genres, Seq: loaded.Seq, Loaded: true}
}

// reduceFilter replaces whole values; there is no merging or validation.
func reduceFilter(s domain.Filter, a Action) domain.Filter {
	switch a := a.(type) {
	case SetSearchQuery:
		s.SearchQuery = a.Query
	case SetSelectedGenre:
		if a.GenreID == nil {
			s.SelectedGenreID = nil
		} else {
			s.SelectedGenreID = domain.GenreID(*a.GenreID)
		}
	case ResetFilters:
		return domain.Filter{}
	}
	return s
}

func reduce(s State, a Action) State {
	return State{
		Filter: reduceFilter(s.Filter, a),
		Books:  reduceBooks(s.Books, a),
		Genres: reduceGenres(s.Genres, a),
	}
}

func filterEqual(a, b domain.Filter) bool {
	if a.SearchQuery != b.SearchQuery {
		return false
	}
	if a.SelectedGenreID == nil || b.SelectedGenreID == nil {
		return a.SelectedGenreID == b.SelectedGenreID
	}
	return *a.SelectedGenreID == *b.SelectedGenreID
}

func changed(before, after State) bool {
	return !filterEqual(before.Filter, after.Filter) ||
		before.Books.Seq != after.Books.Seq || before.Books.Loaded != after.Books.Loaded ||
		before.Genres.Seq != after.Genres.Seq || before.Genres.Loaded != after.Genres.Loaded
}
