package fakeapi

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bookverseapp/bookverse/internal/domain"
	"github.com/bookverseapp/bookverse/internal/errors"
	"github.com/bookverseapp/bookverse/internal/validation"
)

// Catalog is the in-memory book store behind the development API.
// All methods are safe for concurrent use and return copies.
type Catalog struct {
	validator *validation.Validator
	now       func() time.Time

	mu     sync.RWMutex
	books  []domain.Book
	genres []domain.Genre
	nextID int64
}

// NewCatalog builds a catalog from a seed. Seed books get ids 1..n in order.
func NewCatalog(seed Seed) (*Catalog, error) {
	c := &Catalog{
		validator: validation.New(),
		now:       time.Now,
		nextID:    1,
	}

	for _, g := range seed.Genres {
		if g.ID <= 0 || g.Name == "" {
			return nil, errors.Validationf("seed genre %d: id and name are required", g.ID)
		}
		if _, dup := domain.FindGenre(c.genres, g.ID); dup {
			return nil, errors.Validationf("seed genre %d: duplicate id", g.ID)
		}
		c.genres = append(c.genres, domain.Genre{ID: g.ID, Name: g.Name})
	}
	slices.SortFunc(c.genres, func(a, b domain.Genre) int { return cmp.Compare(a.ID, b.ID) })

	for i, sb := range seed.Books {
		if _, err := c.insert(sb.input(), sb.CreatedAt); err != nil {
			return nil, fmt.Errorf("seed book %d (%q): %w", i+1, sb.Title, err)
		}
	}

	return c, nil
}

// Books returns every book in insertion order.
func (c *Catalog) Books() []domain.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.books)
}

// Genres returns every genre ordered by id.
func (c *Catalog) Genres() []domain.Genre {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.genres)
}

// BooksByGenre returns the books of one genre. An unknown genre is not found.
func (c *Catalog) BooksByGenre(genreID int64) ([]domain.Book, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := domain.FindGenre(c.genres, genreID); !ok {
		return nil, errors.NotFoundf("genre %d not found", genreID)
	}

	out := make([]domain.Book, 0)
	for _, b := range c.books {
		if b.Genre.ID == genreID {
			out = append(out, b)
		}
	}
	return out, nil
}

// Create validates in and stores a new book with the next id.
func (c *Catalog) Create(in domain.BookInput) (domain.Book, error) {
	if err := c.validator.Validate(in); err != nil {
		return domain.Book{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(in, time.Time{})
}

// Update overwrites the provided fields of book id.
func (c *Catalog) Update(id int64, u domain.BookUpdate) (domain.Book, error) {
	if u.IsEmpty() {
		return domain.Book{}, errors.Validation("no fields to update")
	}
	if err := c.validator.Validate(u); err != nil {
		return domain.Book{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return domain.Book{}, errors.NotFoundf("book %d not found", id)
	}

	book := c.books[i]
	u.Apply(&book)
	if u.GenreID != nil {
		genre, ok := domain.FindGenre(c.genres, *u.GenreID)
		if !ok {
			return domain.Book{}, errors.Validationf("genre %d does not exist", *u.GenreID)
		}
		book.Genre = genre
	}

	c.books[i] = book
	return book, nil
}

// Delete removes book id. Deleting an unknown id is not found.
func (c *Catalog) Delete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return errors.NotFoundf("book %d not found", id)
	}
	c.books = slices.Delete(c.books, i, i+1)
	return nil
}

func (c *Catalog) insert(in domain.BookInput, createdAt time.Time) (domain.Book, error) {
	if err := c.validator.Validate(in); err != nil {
		return domain.Book{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(in, createdAt)
}

func (c *Catalog) insertLocked(in domain.BookInput, createdAt time.Time) (domain.Book, error) {
	genre, ok := domain.FindGenre(c.genres, in.GenreID)
	if !ok {
		return domain.Book{}, errors.Validationf("genre %d does not exist", in.GenreID)
	}
	if createdAt.IsZero() {
		createdAt = c.now()
	}

	book := domain.Book{
		ID:         c.nextID,
		Title:      in.Title,
		Author:     in.Author,
		CoverImage: in.CoverImage,
		Status:     in.Status,
		Genre:      genre,
		CreatedAt:  createdAt.UTC().Truncate(time.Millisecond),
	}
	c.nextID++
	c.books = append(c.books, book)
	return book, nil
}

func (c *Catalog) indexLocked(id int64) int {
	return slices.IndexFunc(c.books, func(b domain.Book) bool { return b.ID == id })
}
