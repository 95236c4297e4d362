package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bookverseapp/bookverse/internal/domain"
	"github.com/bookverseapp/bookverse/internal/form"
)

// editor renders a form and routes key presses into it.
type editor struct {
	form   *form.Form
	inputs map[form.Field]*textinput.Model
	genres []domain.Genre
	focus  int // index into form.AllFields
	keys   formKeyMap
	help   help.Model
}

var textFields = []form.Field{form.FieldTitle, form.FieldAuthor, form.FieldCoverImage}

var placeholders = map[form.Field]string{
	form.FieldTitle:      "Enter book title",
	form.FieldAuthor:     "Enter author name",
	form.FieldCoverImage: "https://example.com/cover.jpg",
}

func newEditor(f *form.Form, genres []domain.Genre) *editor {
	e := &editor{
		form:   f,
		inputs: make(map[form.Field]*textinput.Model, len(textFields)),
		genres: genres,
		keys:   newFormKeyMap(),
		help:   help.New(),
	}

	values := f.Values()
	current := map[form.Field]string{
		form.FieldTitle:      values.Title,
		form.FieldAuthor:     values.Author,
		form.FieldCoverImage: values.CoverImage,
	}
	for _, field := range textFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[field]
		ti.CharLimit = 512
		ti.Width = 48
		ti.SetValue(current[field])
		e.inputs[field] = &ti
	}
	e.inputs[form.FieldTitle].Focus()
	return e
}

func (e *editor) focused() form.Field {
	return form.AllFields[e.focus]
}

func (e *editor) move(delta int) tea.Cmd {
	if in, ok := e.inputs[e.focused()]; ok {
		in.Blur()
	}
	n := len(form.AllFields)
	e.focus = ((e.focus+delta)%n + n) % n
	if in, ok := e.inputs[e.focused()]; ok {
		return in.Focus()
	}
	return nil
}

// cycle changes the selection of the genre or status field.
func (e *editor) cycle(delta int) {
	values := e.form.Values()
	switch e.focused() {
	case form.FieldGenre:
		if len(e.genres) == 0 {
			return
		}
		idx := -1
		for i, g := range e.genres {
			if g.ID == values.GenreID {
				idx = i
				break
			}
		}
		n := len(e.genres)
		switch {
		case idx < 0 && delta < 0:
			idx = n - 1
		case idx < 0:
			idx = 0
		default:
			idx = ((idx+delta)%n + n) % n
		}
		e.form.SetGenre(e.genres[idx].ID)
	case form.FieldStatus:
		next := values.Status.Next()
		if delta < 0 {
			// Two steps forward is one step back with three statuses.
			for range len(domain.Statuses) - 2 {
				next = next.Next()
			}
		}
		e.form.SetStatus(next)
	case form.FieldTitle, form.FieldAuthor, form.FieldCoverImage:
	}
}

// result of a key press inside the editor.
type editorAction int

const (
	editorNone editorAction = iota
	editorSubmit
	editorCancel
)

func (e *editor) update(msg tea.KeyMsg) (editorAction, tea.Cmd) {
	switch {
	case key.Matches(msg, e.keys.Cancel):
		if e.form.Submitting() {
			return editorNone, nil
		}
		return editorCancel, nil
	case msg.String() == "ctrl+s":
		return editorSubmit, nil
	case msg.String() == "enter":
		if e.focus == len(form.AllFields)-1 {
			return editorSubmit, nil
		}
		return editorNone, e.move(1)
	case key.Matches(msg, e.keys.Next):
		return editorNone, e.move(1)
	case key.Matches(msg, e.keys.Prev):
		return editorNone, e.move(-1)
	}

	field := e.focused()
	if in, ok := e.inputs[field]; ok {
		updated, cmd := in.Update(msg)
		*in = updated
		e.form.SetText(field, in.Value())
		return editorNone, cmd
	}

	switch msg.String() {
	case "left":
		e.cycle(-1)
	case "right", " ":
		e.cycle(1)
	}
	return editorNone, nil
}

// updateInputs forwards non-key messages, such as cursor blinks, to the
// focused input.
func (e *editor) updateInputs(msg tea.Msg) tea.Cmd {
	in, ok := e.inputs[e.focused()]
	if !ok {
		return nil
	}
	updated, cmd := in.Update(msg)
	*in = updated
	return cmd
}

func (e *editor) genreName(id int64) string {
	if id == 0 {
		return "Select a genre"
	}
	if g, ok := domain.FindGenre(e.genres, id); ok {
		return g.Name
	}
	return "Unknown genre"
}

func (e *editor) view(s Styles, width int) string {
	var sb strings.Builder

	title := "Add New Book"
	if e.form.Mode() == form.ModeEdit {
		title = "Edit Book"
	}
	sb.WriteString(s.Title.Render(title))
	sb.WriteString("\n\n")

	values := e.form.Values()
	for i, field := range form.AllFields {
		label := s.Label.Render(field.Label())
		if i == e.focus {
			label = s.Focused.Width(18).Render("> " + field.Label())
		}

		var value string
		switch field {
		case form.FieldGenre:
			value = "‹ " + e.genreName(values.GenreID) + " ›"
		case form.FieldStatus:
			value = "‹ " + s.StatusBadge(values.Status) + " ›"
		case form.FieldTitle, form.FieldAuthor, form.FieldCoverImage:
			value = e.inputs[field].View()
		}

		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, value))
		sb.WriteString("\n")
		if msg := e.form.FieldError(field); msg != "" {
			sb.WriteString(s.Label.Render(""))
			sb.WriteString(s.Error.Render(field.Label() + " " + msg))
			sb.WriteString("\n")
		}
	}

	if err := e.form.Err(); err != nil && len(e.form.Missing()) == 0 {
		sb.WriteString("\n")
		sb.WriteString(s.Error.Render(err.Error()))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	button := s.Button
	if !e.form.CanSubmit() {
		button = s.Disabled
	}
	sb.WriteString(button.Render(e.form.SubmitLabel()))
	sb.WriteString("  ")
	sb.WriteString(s.Muted.Render("Cancel (esc)"))
	sb.WriteString("\n\n")

	e.help.Width = width
	sb.WriteString(e.help.View(e.keys))

	return s.Panel.Render(sb.String())
}
