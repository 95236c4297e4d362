package domain

// Genre is read-only reference data used to classify books.
type Genre struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// FindGenre returns the genre with the given id, if present.
func FindGenre(genres []Genre, id int64) (Genre, bool) {
	for _, g := range genres {
		if g.ID == id {
			return g, true
		}
	}
	return Genre{}, false
}

// NameGenres returns books with blank genre names filled from genres.
// books is copied only when a name changes.
func NameGenres(books []Book, genres []Genre) []Book {
	out := books
	copied := false
	for i, b := range books {
		if b.Genre.Name != "" || b.Genre.ID == 0 {
			continue
		}
		g, ok := FindGenre(genres, b.Genre.ID)
		if !ok {
			continue
		}
		if !copied {
			out = append([]Book(nil), books...)
			copied = true
		}
		out[i].Genre.Name = g.Name
	}
	return out
}
