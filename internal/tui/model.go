package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bookverseapp/bookverse/internal/dashboard"
	"github.com/bookverseapp/bookverse/internal/domain"
	"github.com/bookverseapp/bookverse/internal/errors"
	"github.com/bookverseapp/bookverse/internal/form"
	"github.com/bookverseapp/bookverse/internal/notify"
	"github.com/bookverseapp/bookverse/internal/validation"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeConfirm
	modeForm
)

// Messages delivered back to the event loop.
type (
	changedMsg      struct{}
	loadedMsg       struct{ err error }
	deletedMsg      struct{ err error }
	submittedMsg    struct{ err error }
	toastExpiredMsg struct{}
)

// Options configures the dashboard model.
type Options struct {
	// Context bounds the requests started from the UI.
	Context   context.Context
	Submitter form.Submitter
	Validator *validation.Validator
	Logger    *slog.Logger
}

// Model is the root bubbletea model.
type Model struct {
	ctx       context.Context
	ctrl      *dashboard.Controller
	submitter form.Submitter
	validator *validation.Validator
	logger    *slog.Logger
	notifier  *notify.Notifier

	styles  Styles
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	table   table.Model
	search  textinput.Model
	editor  *editor

	view       dashboard.View
	mode       mode
	confirmID  int64
	pending    bool // a load started from the UI has not returned
	loadedOnce bool
	toastTimer bool
	width      int
	height     int
}

var columns = []table.Column{
	{Title: "Title", Width: 32},
	{Title: "Author", Width: 22},
	{Title: "Genre", Width: 14},
	{Title: "Status", Width: 10},
	{Title: "Added", Width: 12},
}

// New builds the dashboard model over ctrl.
func New(ctrl *dashboard.Controller, opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	styles := NewStyles()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.Spinner

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "title or author"
	search.CharLimit = 128
	search.Width = 32

	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Background(Primary)
	tbl.SetStyles(ts)

	m := Model{
		ctx:       ctx,
		ctrl:      ctrl,
		submitter: opts.Submitter,
		validator: opts.Validator,
		logger:    logger,
		notifier:  ctrl.Notifier(),
		styles:    styles,
		keys:      newKeyMap(),
		help:      help.New(),
		spinner:   sp,
		table:     tbl,
		search:    search,
		pending:   true,
	}
	m.refresh()
	return m
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: ctrl.Load(ctx)}
	}
}

func (m Model) retry() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: ctrl.Retry(ctx)}
	}
}

func (m Model) deleteBook(bookID int64) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return deletedMsg{err: ctrl.DeleteBook(ctx, bookID)}
	}
}

func (m Model) submit(f *form.Form) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_, err := f.Submit(ctx)
		return submittedMsg{err: err}
	}
}

// Update handles a message and returns the next model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(5, msg.Height-18))
		return m, nil

	case spinner.TickMsg:
		if !m.pending && m.view.Phase != dashboard.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case changedMsg:
		m.refresh()
		return m, m.scheduleToasts()

	case loadedMsg:
		m.pending = false
		if msg.err != nil && !errors.Is(msg.err, errors.ErrStale) {
			m.logger.Debug("dashboard load failed", "error", msg.err)
		}
		m.refresh()
		return m, m.scheduleToasts()

	case deletedMsg:
		m.refresh()
		return m, m.scheduleToasts()

	case submittedMsg:
		if m.editor != nil && !m.editor.form.Open() {
			m.editor = nil
			m.mode = modeBrowse
		}
		m.refresh()
		return m, m.scheduleToasts()

	case toastExpiredMsg:
		m.toastTimer = false
		return m, m.scheduleToasts()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	switch m.mode {
	case modeSearch:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	case modeForm:
		return m, m.editor.updateInputs(msg)
	case modeBrowse, modeConfirm:
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	case modeForm:
		return m.handleFormKey(msg)
	case modeBrowse:
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.view.Phase {
	case dashboard.PhaseError:
		if key.Matches(msg, m.keys.Retry) {
			m.pending = true
			return m, tea.Batch(m.spinner.Tick, m.retry())
		}
		return m, nil
	case dashboard.PhaseLoading:
		if !m.loadedOnce {
			return m, nil
		}
	case dashboard.PhaseReady:
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.NextGenre):
		m.ctrl.CycleGenre(1)
	case key.Matches(msg, m.keys.PrevGenre):
		m.ctrl.CycleGenre(-1)
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.ResetFilters()
		m.search.Reset()
	case key.Matches(msg, m.keys.Retry):
		m.pending = true
		return m, tea.Batch(m.spinner.Tick, m.retry())
	case key.Matches(msg, m.keys.New):
		return m.openEditor(form.NewCreate(m.formOptions()))
	case key.Matches(msg, m.keys.Edit):
		if book, ok := m.selected(); ok {
			return m.openEditor(form.NewEdit(m.formOptions(), book))
		}
	case key.Matches(msg, m.keys.Delete):
		if book, ok := m.selected(); ok {
			m.mode = modeConfirm
			m.confirmID = book.ID
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	m.refresh()
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.ctrl.SubmitSearch(m.search.Value())
		m.search.Blur()
		m.mode = modeBrowse
		m.refresh()
		return m, nil
	case "esc":
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.ctrl.SetSearch(m.search.Value())
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.confirmID
		m.mode = modeBrowse
		m.confirmID = 0
		return m, m.deleteBook(id)
	case "n", "N", "esc", "q":
		m.mode = modeBrowse
		m.confirmID = 0
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, cmd := m.editor.update(msg)
	switch action {
	case editorCancel:
		m.editor = nil
		m.mode = modeBrowse
		return m, nil
	case editorSubmit:
		if m.editor.form.Submitting() {
			return m, nil
		}
		return m, m.submit(m.editor.form)
	case editorNone:
	}
	return m, cmd
}

func (m Model) formOptions() form.Options {
	return form.Options{
		Submitter: m.submitter,
		Notifier:  m.notifier,
		Validator: m.validator,
		Logger:    m.logger,
	}
}

func (m Model) openEditor(f *form.Form) (tea.Model, tea.Cmd) {
	m.editor = newEditor(f, m.view.Genres)
	m.mode = modeForm
	return m, textinput.Blink
}

func (m Model) selected() (domain.Book, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.view.Books) {
		return domain.Book{}, false
	}
	return m.view.Books[i], true
}

// refresh pulls the controller view and rebuilds the table rows.
func (m *Model) refresh() {
	m.view = m.ctrl.View()
	if m.view.Phase == dashboard.PhaseReady {
		m.loadedOnce = true
	}

	rows := make([]table.Row, 0, len(m.view.Books))
	for _, b := range m.view.Books {
		rows = append(rows, table.Row{
			b.Title,
			b.Author,
			b.Genre.Name,
			b.Status.Label(),
			formatDate(b.CreatedAt),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) || c < 0 {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// scheduleToasts arms one timer for the next toast expiry.
func (m *Model) scheduleToasts() tea.Cmd {
	if m.toastTimer {
		return nil
	}
	next, ok := m.notifier.NextExpiry()
	if !ok {
		return nil
	}
	m.toastTimer = true
	return tea.Tick(time.Until(next)+10*time.Millisecond, func(time.Time) tea.Msg {
		return toastExpiredMsg{}
	})
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 2006")
}

// View renders the screen.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n\n")

	switch {
	case m.mode == modeForm && m.editor != nil:
		sb.WriteString(m.editor.view(m.styles, m.width))
	case m.view.Phase == dashboard.PhaseError:
		sb.WriteString(m.renderError())
	case m.view.Phase == dashboard.PhaseLoading && !m.loadedOnce:
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Loading books...")
	default:
		sb.WriteString(m.renderDashboard())
	}

	if toasts := m.renderToasts(); toasts != "" {
		sb.WriteString("\n\n")
		sb.WriteString(toasts)
	}
	return sb.String()
}

func (m Model) renderHeader() string {
	header := m.styles.Header.Render("BookVerse")
	if m.view.Phase == dashboard.PhaseLoading && m.loadedOnce {
		header += " " + m.spinner.View() + m.styles.Muted.Render(" refreshing")
	}
	return header
}

func (m Model) renderError() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Error.Render("Error Loading Data"))
	sb.WriteString("\n")
	sb.WriteString("Please try again later.")
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Muted.Render("r retry • q quit"))
	return sb.String()
}

func (m Model) renderDashboard() string {
	var sb strings.Builder

	sb.WriteString(m.renderSummary())
	sb.WriteString("\n")
	sb.WriteString(m.renderFilters())
	sb.WriteString("\n\n")

	if len(m.view.Books) == 0 {
		sb.WriteString(m.styles.Bold.Render("No books found"))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Muted.Render("Try adjusting your search or filters"))
	} else {
		sb.WriteString(m.table.View())
		if book, ok := m.selected(); ok {
			sb.WriteString("\n")
			sb.WriteString(m.styles.StatusBadge(book.Status))
			sb.WriteString(" ")
			sb.WriteString(m.styles.Bold.Render(book.Title))
			sb.WriteString(m.styles.Muted.Render(" by " + book.Author))
		}
	}

	sb.WriteString("\n\n")
	if m.mode == modeConfirm {
		sb.WriteString(m.renderConfirm())
	} else {
		sb.WriteString(m.help.View(m.keys))
	}
	return sb.String()
}

func (m Model) renderSummary() string {
	card := func(label string, value int, color lipgloss.Color) string {
		return m.styles.Card.Render(
			m.styles.Muted.Render(label) + "\n" +
				m.styles.CardValue.Foreground(color).Render(strconv.Itoa(value)),
		)
	}
	s := m.view.Summary
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Books", s.Total, Primary),
		card("To Read", s.ToRead, BadgeToRead),
		card("In Progress", s.InProgress, BadgeInProgress),
		card("Read", s.Read, BadgeRead),
	)
}

func (m Model) renderFilters() string {
	genre := "All Genres"
	if g, ok := m.view.SelectedGenre(); ok {
		genre = g.Name
		if genre == "" {
			genre = fmt.Sprintf("Genre %d", g.ID)
		}
	}

	parts := []string{
		m.search.View(),
		m.styles.Muted.Render("Genre: ") + m.styles.Bold.Render(genre),
	}
	if !m.view.Filter.IsZero() {
		parts = append(parts, m.styles.Muted.Render(
			fmt.Sprintf("showing %d of %d", len(m.view.Books), m.view.Total)))
	}
	return strings.Join(parts, "   ")
}

func (m Model) renderConfirm() string {
	title := fmt.Sprintf("#%d", m.confirmID)
	for _, b := range m.view.Books {
		if b.ID == m.confirmID {
			title = b.Title
			break
		}
	}
	return m.styles.Error.Render(fmt.Sprintf("Delete %q?", title)) +
		m.styles.Muted.Render(" (y/n)")
}

func (m Model) renderToasts() string {
	toasts := m.notifier.Active()
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, m.styles.ToastStyle(t.Kind).Render(t.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}
