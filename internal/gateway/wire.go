package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bookverseapp/bookverse/internal/domain"
)

// wireID accepts numeric ids sent either as numbers or as numeric strings.
type wireID int64

func (id *wireID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(data), `"`)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = wireID(n)
	return nil
}

// wireTime accepts the timestamp layouts seen from catalog backends.
// Anything unparseable becomes the zero time rather than failing the list.
type wireTime time.Time

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil //nolint:nilerr // non-string timestamps are ignored
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = wireTime(parsed)
			return nil
		}
	}
	return nil
}

type wireGenre struct {
	Name string `json:"name"`
	ID   wireID `json:"id"`
}

// wireBook is a book as it arrives: the genre may be embedded, referenced
// by genreId, or both.
type wireBook struct {
	CreatedAt  wireTime   `json:"createdAt"`
	Genre      *wireGenre `json:"genre"`
	GenreID    *wireID    `json:"genreId"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	CoverImage string     `json:"coverImage"`
	Status     string     `json:"status"`
	ID         wireID     `json:"id"`
}

// toBook converts w to the canonical shape. A genre without a name takes
// it from known when possible.
func (w wireBook) toBook(known []domain.Genre) domain.Book {
	book := domain.Book{
		ID:         int64(w.ID),
		Title:      w.Title,
		Author:     w.Author,
		CoverImage: w.CoverImage,
		Status:     normalizeStatus(w.Status),
		CreatedAt:  time.Time(w.CreatedAt),
	}

	switch {
	case w.Genre != nil:
		book.Genre = domain.Genre{ID: int64(w.Genre.ID), Name: w.Genre.Name}
	case w.GenreID != nil:
		book.Genre = domain.Genre{ID: int64(*w.GenreID)}
	}
	if book.Genre.Name == "" {
		if g, ok := domain.FindGenre(known, book.Genre.ID); ok {
			book.Genre.Name = g.Name
		}
	}
	return book
}

// normalizeStatus maps "In-Progress" and similar spellings onto the enum.
func normalizeStatus(s string) domain.Status {
	return domain.Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
}

func toBooks(ws []wireBook, known []domain.Genre) []domain.Book {
	out := make([]domain.Book, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toBook(known))
	}
	return out
}

func toGenres(ws []wireGenre) []domain.Genre {
	out := make([]domain.Genre, 0, len(ws))
	for _, w := range ws {
		out = append(out, domain.Genre{ID: int64(w.ID), Name: w.Name})
	}
	return out
}

// decodePayload unmarshals body into dst, unwrapping a {"data": ...}
// envelope when one is present.
func decodePayload(body []byte, dst any) error {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
			body = env.Data
		}
	}
	return json.Unmarshal(body, dst)
}

// errorMessage extracts {"message": ...} or {"error": ...} from an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
