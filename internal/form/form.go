// Package form holds the create and edit book forms: field state, the
// required-field check, and the submit lifecycle.
package form

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bookverseapp/bookverse/internal/domain"
	"github.com/bookverseapp/bookverse/internal/errors"
	"github.com/bookverseapp/bookverse/internal/notify"
	"github.com/bookverseapp/bookverse/internal/validation"
)

// Mode distinguishes the create form from the edit form.
type Mode int

// Form modes.
const (
	ModeCreate Mode = iota
	ModeEdit
)

// Field identifies one input.
type Field int

// Form fields in display order.
const (
	FieldTitle Field = iota
	FieldAuthor
	FieldCoverImage
	FieldGenre
	FieldStatus
)

// AllFields lists the fields in display order.
var AllFields = []Field{FieldTitle, FieldAuthor, FieldCoverImage, FieldGenre, FieldStatus}

// Key returns the payload name of the field, as used in validation errors.
func (f Field) Key() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldAuthor:
		return "author"
	case FieldCoverImage:
		return "coverImage"
	case FieldGenre:
		return "genreId"
	case FieldStatus:
		return "status"
	default:
		return ""
	}
}

// Label returns the field caption.
func (f Field) Label() string {
	switch f {
	case FieldTitle:
		return "Title"
	case FieldAuthor:
		return "Author"
	case FieldCoverImage:
		return "Cover Image URL"
	case FieldGenre:
		return "Genre"
	case FieldStatus:
		return "Status"
	default:
		return ""
	}
}

// Values is the content of a form. GenreID 0 means no genre selected.
type Values struct {
	Title      string
	Author     string
	CoverImage string
	Status     domain.Status
	GenreID    int64
}

// ValuesOf returns the values describing book.
func ValuesOf(b domain.Book) Values {
	return Values{
		Title:      b.Title,
		Author:     b.Author,
		CoverImage: b.CoverImage,
		Status:     b.Status,
		GenreID:    b.Genre.ID,
	}
}

func defaultValues() Values {
	return Values{Status: domain.StatusToRead}
}

// Submitter sends form payloads. The gateway client implements it.
type Submitter interface {
	CreateBook(ctx context.Context, in domain.BookInput) (domain.Book, error)
	UpdateBook(ctx context.Context, bookID int64, u domain.BookUpdate) (domain.Book, error)
}

// ErrInFlight rejects a submit while another one is pending.
var ErrInFlight = errors.Validation("a submission is already in progress")

// Form is a create or edit form. Safe for concurrent use: the submit runs
// off the UI loop while the view keeps reading state.
type Form struct {
	submitter Submitter
	notifier  *notify.Notifier
	validator *validation.Validator
	logger    *slog.Logger
	mode      Mode
	bookID    int64
	original  Values

	mu          sync.Mutex
	values      Values
	submitting  bool
	open        bool
	err         error
	fieldErrors map[string]string
}

// Options carries the collaborators of a form.
type Options struct {
	Submitter Submitter
	Notifier  *notify.Notifier
	Validator *validation.Validator
	Logger    *slog.Logger
}

func newForm(opts Options, mode Mode) *Form {
	f := &Form{
		submitter: opts.Submitter,
		notifier:  opts.Notifier,
		validator: opts.Validator,
		logger:    opts.Logger,
		mode:      mode,
		open:      true,
	}
	if f.notifier == nil {
		f.notifier = notify.New(nil, 0)
	}
	if f.validator == nil {
		f.validator = validation.New()
	}
	if f.logger == nil {
		f.logger = slog.New(slog.DiscardHandler)
	}
	return f
}

// NewCreate opens an empty create form. Status starts as to_read.
func NewCreate(opts Options) *Form {
	f := newForm(opts, ModeCreate)
	f.original = defaultValues()
	f.values = f.original
	return f
}

// NewEdit opens an edit form prefilled from book.
func NewEdit(opts Options, book domain.Book) *Form {
	f := newForm(opts, ModeEdit)
	f.bookID = book.ID
	f.original = ValuesOf(book)
	f.values = f.original
	return f
}

// Mode returns whether this form creates or edits.
func (f *Form) Mode() Mode { return f.mode }

// BookID returns the id of the edited book, 0 for a create form.
func (f *Form) BookID() int64 { return f.bookID }

// Values returns the current field values.
func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// SetText sets a text field. Non-text fields are ignored.
func (f *Form) SetText(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch field {
	case FieldTitle:
		f.values.Title = value
	case FieldAuthor:
		f.values.Author = value
	case FieldCoverImage:
		f.values.CoverImage = value
	case FieldGenre, FieldStatus:
	}
	delete(f.fieldErrors, field.Key())
}

// SetGenre selects a genre; 0 clears the selection.
func (f *Form) SetGenre(genreID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.GenreID = genreID
	delete(f.fieldErrors, FieldGenre.Key())
}

// SetStatus selects a status.
func (f *Form) SetStatus(s domain.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Status = s
	delete(f.fieldErrors, FieldStatus.Key())
}

// Missing lists the required fields that are empty, in display order.
func (f *Form) Missing() []Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	return missing(f.values)
}

func missing(v Values) []Field {
	var out []Field
	if v.Title == "" {
		out = append(out, FieldTitle)
	}
	if v.Author == "" {
		out = append(out, FieldAuthor)
	}
	if v.CoverImage == "" {
		out = append(out, FieldCoverImage)
	}
	if v.GenreID == 0 {
		out = append(out, FieldGenre)
	}
	if v.Status == "" {
		out = append(out, FieldStatus)
	}
	return out
}

// CanSubmit reports whether the submit control is enabled.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.submitting && len(missing(f.values)) == 0
}

// Submitting reports whether a request is in flight.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Open reports whether the form is still shown. It closes on success.
func (f *Form) Open() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Err returns the last submit error, nil after a success.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// FieldError returns the validation message for field, if any.
func (f *Form) FieldError(field Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fieldErrors[field.Key()]
}

// SubmitLabel is the text of the submit control.
func (f *Form) SubmitLabel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.mode == ModeCreate && f.submitting:
		return "Creating..."
	case f.mode == ModeCreate:
		return "Add Book"
	case f.submitting:
		return "Updating..."
	default:
		return "Update Book"
	}
}

// Submit validates and sends the form. A second call while one is in flight
// fails with ErrInFlight. Empty required fields fail with a validation error
// and nothing is sent.
//
// On success the form closes, a create form resets, and a success toast is
// queued. An edit with nothing changed just closes, with no request and no
// toast. The gateway has already refetched the book list by the time the
// submitter returns. On failure the form stays open with the error and a
// failure toast; submission is enabled again.
func (f *Form) Submit(ctx context.Context) (domain.Book, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return domain.Book{}, ErrInFlight
	}
	values := f.values
	if m := missing(values); len(m) > 0 {
		details := make(map[string]string, len(m))
		for _, field := range m {
			details[field.Key()] = "is required"
		}
		err := errors.ValidationWithDetails("Please fill in all required fields", details)
		f.err = err
		f.fieldErrors = details
		f.mu.Unlock()
		return domain.Book{}, err
	}
	f.submitting = true
	f.err = nil
	f.mu.Unlock()

	book, sent, err := f.send(ctx, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if err != nil {
		f.err = err
		f.fieldErrors = validation.FieldErrors(err)
		if f.mode == ModeCreate {
			f.notifier.BookAddFailed(err)
		} else {
			f.notifier.BookUpdateFailed(err)
		}
		f.logger.Debug("form submit failed", "mode", f.mode, "error", err)
		return domain.Book{}, err
	}

	f.open = false
	f.fieldErrors = nil
	switch {
	case f.mode == ModeCreate:
		f.values = defaultValues()
		f.notifier.BookAdded()
	case sent:
		f.original = values
		f.notifier.BookUpdated()
	default:
		f.logger.Debug("edit closed without changes", "book_id", f.bookID)
	}
	return book, nil
}

// send reports whether a request went out; an unchanged edit sends none.
func (f *Form) send(ctx context.Context, v Values) (domain.Book, bool, error) {
	if f.mode == ModeCreate {
		book, err := f.submitter.CreateBook(ctx, domain.BookInput{
			Title:      v.Title,
			Author:     v.Author,
			CoverImage: v.CoverImage,
			Status:     v.Status,
			GenreID:    v.GenreID,
		})
		return book, true, err
	}

	update := Diff(f.original, v)
	if update.IsEmpty() {
		return domain.Book{
			ID:         f.bookID,
			Title:      v.Title,
			Author:     v.Author,
			CoverImage: v.CoverImage,
			Status:     v.Status,
			Genre:      domain.Genre{ID: v.GenreID},
		}, false, nil
	}
	book, err := f.submitter.UpdateBook(ctx, f.bookID, update)
	return book, true, err
}

// Diff returns an update carrying only the fields that differ between
// before and after.
func Diff(before, after Values) domain.BookUpdate {
	var u domain.BookUpdate
	if after.Title != before.Title {
		u.Title = &after.Title
	}
	if after.Author != before.Author {
		u.Author = &after.Author
	}
	if after.CoverImage != before.CoverImage {
		u.CoverImage = &after.CoverImage
	}
	if after.Status != before.Status {
		u.Status = &after.Status
	}
	if after.GenreID != before.GenreID {
		u.GenreID = &after.GenreID
	}
	return u
}
