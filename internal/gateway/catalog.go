package gateway

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/bookverseapp/bookverse/internal/domain"
	"github.com/bookverseapp/bookverse/internal/errors"
)

// Cache keys.
const (
	keyBooks  = "books"
	keyGenres = "genres"
)

type fetched[S any] struct {
	data S
	seq  uint64
}

// getOrFetch serves key from the cache or fetches it. Concurrent reads of
// the same generation share one request, driven by the first caller's ctx.
// Callers get their own copy of the slice.
func getOrFetch[S ~[]E, E any](ctx context.Context, c *Client, key string, tags []Tag, fetch func(ctx context.Context) (S, uint64, error)) (Result[S], error) {
	if e, ok := c.cache.get(key); ok {
		return Result[S]{Data: slices.Clone(e.data.(S)), Seq: e.seq, Cached: true}, nil
	}

	gens := c.cache.snapshot(tags)
	v, err, _ := c.flights.Do(flightKey(key, gens), func() (any, error) {
		data, seq, err := fetch(ctx)
		if err != nil {
			return fetched[S]{seq: seq}, err
		}
		if !c.cache.put(key, entry{data: data, tags: tags, seq: seq}, gens) {
			c.logger.Debug("response outlived an invalidation, not cached", "key", key, "seq", seq)
		}
		return fetched[S]{data: data, seq: seq}, nil
	})

	f, _ := v.(fetched[S])
	if err != nil {
		return Result[S]{Seq: f.seq}, err
	}
	return Result[S]{Data: slices.Clone(f.data), Seq: f.seq}, nil
}

// ListBooks fetches all books.
func (c *Client) ListBooks(ctx context.Context) (Result[[]domain.Book], error) {
	res, err := getOrFetch(ctx, c, keyBooks, []Tag{TagBooks}, func(ctx context.Context) ([]domain.Book, uint64, error) {
		return c.fetchBooks(ctx, "/books")
	})
	return c.named(res), err
}

// ListBooksByGenre fetches the books of one genre from the server.
func (c *Client) ListBooksByGenre(ctx context.Context, genreID int64) (Result[[]domain.Book], error) {
	path := fmt.Sprintf("/books/genre/%d", genreID)
	res, err := getOrFetch(ctx, c, path[1:], []Tag{TagBooks}, func(ctx context.Context) ([]domain.Book, uint64, error) {
		return c.fetchBooks(ctx, path)
	})
	return c.named(res), err
}

// named fills genre names on read, since a books response decoded before
// the first genres response carries ids only.
func (c *Client) named(res Result[[]domain.Book]) Result[[]domain.Book] {
	res.Data = domain.NameGenres(res.Data, c.genres())
	return res
}

// ListGenres fetches the genre reference data.
func (c *Client) ListGenres(ctx context.Context) (Result[[]domain.Genre], error) {
	return getOrFetch(ctx, c, keyGenres, []Tag{TagGenres}, func(ctx context.Context) ([]domain.Genre, uint64, error) {
		var raw []wireGenre
		seq, err := c.do(ctx, http.MethodGet, "/genres", nil, &raw)
		if err != nil {
			return nil, seq, err
		}
		genres := toGenres(raw)
		c.rememberGenres(genres)
		return genres, seq, nil
	})
}

func (c *Client) fetchBooks(ctx context.Context, path string) ([]domain.Book, uint64, error) {
	var raw []wireBook
	seq, err := c.do(ctx, http.MethodGet, path, nil, &raw)
	if err != nil {
		return nil, seq, err
	}
	return toBooks(raw, c.genres()), seq, nil
}

// CreateBook validates in, creates the book, and invalidates the book lists.
func (c *Client) CreateBook(ctx context.Context, in domain.BookInput) (domain.Book, error) {
	if err := c.validator.Validate(in); err != nil {
		return domain.Book{}, err
	}

	var raw wireBook
	if _, err := c.do(ctx, http.MethodPost, "/books", in, &raw); err != nil {
		return domain.Book{}, err
	}
	book := raw.toBook(c.genres())

	c.logger.Info("book created", "book", book.String())
	c.Invalidate(ctx, TagBooks)
	return book, nil
}

// UpdateBook sends the provided fields of u for book id.
// An unknown id fails with a not found error.
func (c *Client) UpdateBook(ctx context.Context, bookID int64, u domain.BookUpdate) (domain.Book, error) {
	if bookID <= 0 {
		return domain.Book{}, errors.Validationf("invalid book id %d", bookID)
	}
	if u.IsEmpty() {
		return domain.Book{}, errors.Validation("nothing to update")
	}
	if err := c.validator.Validate(u); err != nil {
		return domain.Book{}, err
	}

	var raw wireBook
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/books/%d", bookID), u, &raw); err != nil {
		return domain.Book{}, err
	}
	book := raw.toBook(c.genres())

	c.logger.Info("book updated", "book", book.String())
	c.Invalidate(ctx, TagBooks)
	return book, nil
}

// DeleteBook deletes book id. Deleting an unknown id returns a not found
// error, but the book lists are invalidated all the same since the book is
// absent either way.
func (c *Client) DeleteBook(ctx context.Context, bookID int64) error {
	if bookID <= 0 {
		return errors.Validationf("invalid book id %d", bookID)
	}

	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/books/%d", bookID), nil, nil)
	switch {
	case err == nil:
		c.logger.Info("book deleted", "id", bookID)
	case errors.CodeOf(err) == errors.CodeNotFound:
		c.logger.Info("book already absent", "id", bookID)
	default:
		return err
	}

	c.Invalidate(ctx, TagBooks)
	return err
}

func (c *Client) rememberGenres(genres []domain.Genre) {
	c.genresMu.Lock()
	defer c.genresMu.Unlock()
	c.knownGenres = genres
}

// genres returns the last fetched genre list, used to name genres that
// books reference only by id.
func (c *Client) genres() []domain.Genre {
	c.genresMu.RLock()
	defer c.genresMu.RUnlock()
	return c.knownGenres
}
