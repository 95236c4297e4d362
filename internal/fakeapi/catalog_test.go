package fakeapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookverseapp/bookverse/internal/domain"
	"github.com/bookverseapp/bookverse/internal/errors"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(DefaultSeed())
	require.NoError(t, err)
	c.now = func() time.Time { return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestNewCatalog_DefaultSeed(t *testing.T) {
	c := newTestCatalog(t)

	books := c.Books()
	require.Len(t, books, 6)
	assert.Equal(t, int64(1), books[0].ID)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, domain.Genre{ID: 1, Name: "Sci-Fi"}, books[0].Genre)
	assert.Len(t, c.Genres(), 4)
}

func TestNewCatalog_RejectsBadSeeds(t *testing.T) {
	tests := []struct {
		name string
		seed Seed
	}{
		{
			name: "duplicate genre",
			seed: Seed{Genres: []SeedGenre{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}}},
		},
		{
			name: "unnamed genre",
			seed: Seed{Genres: []SeedGenre{{ID: 1}}},
		},
		{
			name: "unknown genre reference",
			seed: Seed{
				Genres: []SeedGenre{{ID: 1, Name: "A"}},
				Books:  []SeedBook{{Title: "T", Author: "A", CoverImage: "http://x", GenreID: 2}},
			},
		},
		{
			name: "invalid book",
			seed: Seed{
				Genres: []SeedGenre{{ID: 1, Name: "A"}},
				Books:  []SeedBook{{Title: "", Author: "A", CoverImage: "http://x", GenreID: 1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.seed)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))
		})
	}
}

func TestCatalog_Create(t *testing.T) {
	c := newTestCatalog(t)

	book, err := c.Create(domain.BookInput{Title: "New", Author: "A", CoverImage: "http://x", Status: domain.StatusToRead, GenreID: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(7), book.ID)
	assert.Equal(t, "Sci-Fi", book.Genre.Name)
	assert.Equal(t, time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC), book.CreatedAt)
	assert.Len(t, c.Books(), 7)
}

func TestCatalog_CreateValidates(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.Create(domain.BookInput{Title: "New"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = c.Create(domain.BookInput{Title: "New", Author: "A", CoverImage: "http://x", Status: domain.StatusRead, GenreID: 42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "genre 42 does not exist")
	assert.Len(t, c.Books(), 6)
}

func TestCatalog_Update(t *testing.T) {
	c := newTestCatalog(t)

	status := domain.StatusRead
	genre := int64(2)
	book, err := c.Update(1, domain.BookUpdate{Status: &status, GenreID: &genre})
	require.NoError(t, err)

	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, domain.StatusRead, book.Status)
	assert.Equal(t, domain.Genre{ID: 2, Name: "Fantasy"}, book.Genre)
	assert.Equal(t, book, c.Books()[0])
}

func TestCatalog_UpdateErrors(t *testing.T) {
	c := newTestCatalog(t)
	title := "X"

	_, err := c.Update(99, domain.BookUpdate{Title: &title})
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = c.Update(1, domain.BookUpdate{})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	genre := int64(77)
	_, err = c.Update(1, domain.BookUpdate{GenreID: &genre})
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Equal(t, int64(1), c.Books()[0].Genre.ID, "failed update leaves the book untouched")
}

func TestCatalog_Delete(t *testing.T) {
	c := newTestCatalog(t)

	require.NoError(t, c.Delete(1))
	for _, b := range c.Books() {
		assert.NotEqual(t, int64(1), b.ID)
	}

	err := c.Delete(1)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestCatalog_IDsAreNotReused(t *testing.T) {
	c := newTestCatalog(t)
	require.NoError(t, c.Delete(6))

	book, err := c.Create(domain.BookInput{Title: "New", Author: "A", CoverImage: "http://x", Status: domain.StatusToRead, GenreID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(7), book.ID)
}

func TestCatalog_BooksByGenre(t *testing.T) {
	c := newTestCatalog(t)

	books, err := c.BooksByGenre(2)
	require.NoError(t, err)
	require.Len(t, books, 2)
	for _, b := range books {
		assert.Equal(t, int64(2), b.Genre.ID)
	}

	_, err = c.BooksByGenre(99)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := newTestCatalog(t)

	books := c.Books()
	books[0].Title = "changed"

	assert.Equal(t, "Dune", c.Books()[0].Title)
}

func TestParseSeed(t *testing.T) {
	data := []byte(`
genres:
  - id: 1
    name: Sci-Fi
books:
  - title: Dune
    author: Frank Herbert
    coverImage: https://covers.example/dune.jpg
    genreId: 1
    createdAt: 2024-02-03T04:05:06Z
`)

	seed, err := ParseSeed(data)
	require.NoError(t, err)
	require.Len(t, seed.Books, 1)
	assert.Equal(t, time.Date(2024, time.February, 3, 4, 5, 6, 0, time.UTC), seed.Books[0].CreatedAt)

	c, err := NewCatalog(seed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusToRead, c.Books()[0].Status, "status defaults to to_read")

	_, err = ParseSeed([]byte("genres: ["))
	assert.Error(t, err)
}

func TestLoadSeed(t *testing.T) {
	seed, err := LoadSeed("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSeed(), seed)

	_, err = LoadSeed("/nonexistent/seed.yaml")
	assert.Error(t, err)
}
