// Package domain contains the catalog entities shared by the BookVerse client packages.
package domain

import (
	"fmt"
	"time"
)

// Status is the reading state of a book.
type Status string

// Reading states accepted by the catalog API.
const (
	StatusToRead     Status = "to_read"
	StatusInProgress Status = "in_progress"
	StatusRead       Status = "read"
)

// Statuses lists every known status in display order.
var Statuses = []Status{StatusToRead, StatusInProgress, StatusRead}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusToRead, StatusInProgress, StatusRead:
		return true
	default:
		return false
	}
}

// Label returns the human-readable badge text.
func (s Status) Label() string {
	switch s {
	case StatusToRead:
		return "To Read"
	case StatusInProgress:
		return "Reading"
	case StatusRead:
		return "Read"
	default:
		return string(s)
	}
}

// Next cycles to the following status, wrapping around.
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusToRead
}

// Book is a catalog record as returned by the API.
// The genre is embedded denormalized; GenreID reads its identifier.
type Book struct {
	CreatedAt  time.Time `json:"createdAt"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	CoverImage string    `json:"coverImage"`
	Status     Status    `json:"status"`
	Genre      Genre     `json:"genre"`
	ID         int64     `json:"id"`
}

// GenreID returns the identifier of the book's genre.
func (b *Book) GenreID() int64 {
	return b.Genre.ID
}

// String implements fmt.Stringer for log lines.
func (b Book) String() string {
	return fmt.Sprintf("#%d %q by %s", b.ID, b.Title, b.Author)
}

// BookInput is the body of a create request. Every field is required.
type BookInput struct {
	Title      string `json:"title" validate:"required"`
	Author     string `json:"author" validate:"required"`
	CoverImage string `json:"coverImage" validate:"required,url"`
	Status     Status `json:"status" validate:"required,oneof=to_read in_progress read"`
	GenreID    int64  `json:"genreId" validate:"required,gt=0"`
}

// BookUpdate is the body of a partial update. Nil fields are left untouched.
type BookUpdate struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Author     *string `json:"author,omitempty" validate:"omitempty,min=1"`
	CoverImage *string `json:"coverImage,omitempty" validate:"omitempty,url"`
	Status     *Status `json:"status,omitempty" validate:"omitempty,oneof=to_read in_progress read"`
	GenreID    *int64  `json:"genreId,omitempty" validate:"omitempty,gt=0"`
}

// IsEmpty reports whether the update carries no fields.
func (u *BookUpdate) IsEmpty() bool {
	return u.Title == nil && u.Author == nil && u.CoverImage == nil && u.Status == nil && u.GenreID == nil
}

// Apply overwrites the provided fields of b. The genre name is not known
// here, so a changed genre keeps only its id until the next fetch.
func (u *BookUpdate) Apply(b *Book) {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Author != nil {
		b.Author = *u.Author
	}
	if u.CoverImage != nil {
		b.CoverImage = *u.CoverImage
	}
	if u.Status != nil {
		b.Status = *u.Status
	}
	if u.GenreID != nil && *u.GenreID != b.Genre.ID {
		b.Genre = Genre{ID: *u.GenreID}
	}
}
