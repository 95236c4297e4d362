package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusToRead.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusRead.Valid())
	assert.False(t, Status("abandoned").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatus_Next(t *testing.T) {
	assert.Equal(t, StatusInProgress, StatusToRead.Next())
	assert.Equal(t, StatusRead, StatusInProgress.Next())
	assert.Equal(t, StatusToRead, StatusRead.Next())
	assert.Equal(t, StatusToRead, Status("weird").Next())
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "To Read", StatusToRead.Label())
	assert.Equal(t, "Reading", StatusInProgress.Label())
	assert.Equal(t, "Read", StatusRead.Label())
	assert.Equal(t, "weird", Status("weird").Label())
}

func TestBookUpdate_Apply(t *testing.T) {
	book := Book{
		ID:         1,
		Title:      "Dune",
		Author:     "Herbert",
		CoverImage: "http://x/dune.jpg",
		Status:     StatusToRead,
		Genre:      Genre{ID: 1, Name: "Sci-Fi"},
	}

	title := "Dune Messiah"
	status := StatusRead
	update := BookUpdate{Title: &title, Status: &status}
	update.Apply(&book)

	assert.Equal(t, "Dune Messiah", book.Title)
	assert.Equal(t, StatusRead, book.Status)
	assert.Equal(t, "Herbert", book.Author, "fields not provided stay untouched")
	assert.Equal(t, Genre{ID: 1, Name: "Sci-Fi"}, book.Genre)
}

func TestBookUpdate_ApplyGenreChangeDropsName(t *testing.T) {
	book := Book{ID: 1, Genre: Genre{ID: 1, Name: "Sci-Fi"}}

	same := int64(1)
	(&BookUpdate{GenreID: &same}).Apply(&book)
	assert.Equal(t, "Sci-Fi", book.Genre.Name)

	other := int64(2)
	(&BookUpdate{GenreID: &other}).Apply(&book)
	assert.Equal(t, Genre{ID: 2}, book.Genre)
}

func TestBookUpdate_IsEmpty(t *testing.T) {
	assert.True(t, (&BookUpdate{}).IsEmpty())
	author := "A"
	assert.False(t, (&BookUpdate{Author: &author}).IsEmpty())
}

func TestFindGenre(t *testing.T) {
	genres := []Genre{{ID: 1, Name: "Sci-Fi"}, {ID: 2, Name: "Fantasy"}}

	g, ok := FindGenre(genres, 2)
	assert.True(t, ok)
	assert.Equal(t, "Fantasy", g.Name)

	_, ok = FindGenre(genres, 9)
	assert.False(t, ok)
}

func TestFilter_IsZero(t *testing.T) {
	assert.True(t, Filter{}.IsZero())
	assert.False(t, Filter{SearchQuery: "dune"}.IsZero())
	assert.False(t, Filter{SelectedGenreID: GenreID(0)}.IsZero())
}

func TestNameGenres(t *testing.T) {
	genres := []Genre{{ID: 1, Name: "Sci-Fi"}}
	books := []Book{
		{ID: 1, Genre: Genre{ID: 1}},
		{ID: 2, Genre: Genre{ID: 9}},
		{ID: 3, Genre: Genre{ID: 1, Name: "Custom"}},
	}

	named := NameGenres(books, genres)

	assert.Equal(t, "Sci-Fi", named[0].Genre.Name)
	assert.Empty(t, named[1].Genre.Name, "unknown genre stays blank")
	assert.Equal(t, "Custom", named[2].Genre.Name)
	assert.Empty(t, books[0].Genre.Name, "input is not modified")
}
