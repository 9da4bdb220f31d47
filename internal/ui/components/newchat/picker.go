// Package newchat renders the contact picker shown when starting a new chat.
// It drives a contacts.Controller: page requests run as tea.Cmds and their
// results come back as ContactsFetchedMsg tagged with the picker session.
package newchat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meszmate/newchat/internal/contacts"
	"github.com/meszmate/newchat/internal/ui/theme"
)

// DefaultReloadDistance is how many lines before the end of the list the
// next page is requested
const DefaultReloadDistance = 2

// Header and search line above the list
const chromeHeight = 2

// ContactsFetchedMsg carries a page result back to the picker session that
// requested it
type ContactsFetchedMsg struct {
	Session int
	Result  contacts.FetchResult
}

// PageLoadedMsg is sent after a page was applied
type PageLoadedMsg struct {
	Total   int
	HasMore bool
}

// FetchFailedMsg is sent when a page request failed. It is not retried.
type FetchFailedMsg struct {
	Err error
}

// CreateGroupMsg is sent when the create group row is selected
type CreateGroupMsg struct{}

// OpenConversationMsg is sent when a contact is selected
type OpenConversationMsg struct {
	ContactID string
	Title     string
}

// Model represents the new chat picker
type Model struct {
	ctrl    *contacts.Controller
	ctx     context.Context
	cancel  context.CancelFunc
	session int
	open    bool

	search  textinput.Model
	spinner spinner.Model
	loading bool
	err     error

	selected int // flat row index, 0 is the create group row
	offset   int // first visible flat row

	width          int
	height         int
	styles         *theme.Styles
	reloadDistance int
	separators     bool
}

// New creates a new picker model. A negative reloadDistance selects
// DefaultReloadDistance.
func New(styles *theme.Styles, reloadDistance int, separators bool) Model {
	if reloadDistance < 0 {
		reloadDistance = DefaultReloadDistance
	}

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "Type a name"
	search.CharLimit = 64

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		search:         search,
		spinner:        s,
		reloadDistance: reloadDistance,
		separators:     separators,
	}
	return m.SetStyles(styles)
}

// SetStyles applies theme styles
func (m Model) SetStyles(styles *theme.Styles) Model {
	m.styles = styles
	m.search.PromptStyle = styles.SearchPrompt
	m.search.TextStyle = styles.SearchText
	m.search.PlaceholderStyle = styles.SearchPlaceholder
	m.spinner.Style = styles.Spinner
	return m
}

// SetSize sets the component size
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.search.Width = width - len(m.search.Prompt) - 2
	m = m.ensureVisible()
	return m
}

// Open starts a new session over source and requests the first page
func (m Model) Open(ctx context.Context, source contacts.Source) (Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.session++
	m.open = true
	m.ctrl = contacts.NewController(source)
	m.selected = 0
	m.offset = 0
	m.err = nil
	m.loading = false
	m.search.SetValue("")

	return m.startFetch(m.ctrl.RequestMoreContacts(m.ctx))
}

// Close ends the session. Results still in flight are dropped on arrival.
func (m Model) Close() Model {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.open = false
	m.loading = false
	m.search.Blur()
	return m
}

// IsOpen reports whether a session is active
func (m Model) IsOpen() bool {
	return m.open
}

// Session returns the current session id
func (m Model) Session() int {
	return m.session
}

// Controller returns the session's controller, nil before Open
func (m Model) Controller() *contacts.Controller {
	return m.ctrl
}

// Loading reports whether a page request is outstanding
func (m Model) Loading() bool {
	return m.loading
}

// Err returns the last fetch error, cleared by the next successful page
func (m Model) Err() error {
	return m.err
}

// SpinnerView renders the activity indicator
func (m Model) SpinnerView() string {
	return m.spinner.View()
}

// Selected returns the selected flat row index
func (m Model) Selected() int {
	return m.selected
}

// Searching reports whether the search field has focus
func (m Model) Searching() bool {
	return m.search.Focused()
}

// SearchValue returns the text in the search field
func (m Model) SearchValue() string {
	return m.search.Value()
}

// FocusSearch moves keyboard input to the search field
func (m Model) FocusSearch() (Model, tea.Cmd) {
	cmd := m.search.Focus()
	return m, cmd
}

// BlurSearch returns keyboard input to the list
func (m Model) BlurSearch() Model {
	m.search.Blur()
	return m
}

// ClearSearch empties the search field and shows every contact
func (m Model) ClearSearch() Model {
	m.search.SetValue("")
	return m.applyFilter()
}

// Refresh requests the next page by hand. It does nothing while a request
// is in flight or once the source is exhausted.
func (m Model) Refresh() (Model, tea.Cmd) {
	if !m.open {
		return m, nil
	}
	m.err = nil
	return m.startFetch(m.ctrl.RequestMoreContacts(m.ctx))
}

// MoveUp moves the selection up by n rows
func (m Model) MoveUp(n int) (Model, tea.Cmd) {
	return m.moveTo(m.selected - n)
}

// MoveDown moves the selection down by n rows
func (m Model) MoveDown(n int) (Model, tea.Cmd) {
	return m.moveTo(m.selected + n)
}

// MoveToTop moves selection to the top
func (m Model) MoveToTop() (Model, tea.Cmd) {
	return m.moveTo(0)
}

// MoveToBottom moves selection to the bottom
func (m Model) MoveToBottom() (Model, tea.Cmd) {
	return m.moveTo(m.totalRows() - 1)
}

// PageUp moves up by a full page
func (m Model) PageUp() (Model, tea.Cmd) {
	return m.moveTo(m.selected - m.visibleRows())
}

// PageDown moves down by a full page
func (m Model) PageDown() (Model, tea.Cmd) {
	return m.moveTo(m.selected + m.visibleRows())
}

// HalfPageUp moves up by half a page
func (m Model) HalfPageUp() (Model, tea.Cmd) {
	return m.moveTo(m.selected - max(1, m.visibleRows()/2))
}

// HalfPageDown moves down by half a page
func (m Model) HalfPageDown() (Model, tea.Cmd) {
	return m.moveTo(m.selected + max(1, m.visibleRows()/2))
}

// Select emits the intent for the selected row
func (m Model) Select() (Model, tea.Cmd) {
	if !m.open {
		return m, nil
	}
	row := m.rowAt(m.selected)
	switch row.Kind {
	case contacts.RowCreateGroup:
		return m, func() tea.Msg { return CreateGroupMsg{} }
	default:
		c := row.Contact
		return m, func() tea.Msg {
			return OpenConversationMsg{ContactID: c.ID, Title: c.DisplayName()}
		}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ContactsFetchedMsg:
		return m.handleFetched(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.search.Focused() {
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.ctrl != nil && m.search.Value() != m.ctrl.Keyword() {
			m = m.applyFilter()
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) handleFetched(msg ContactsFetchedMsg) (Model, tea.Cmd) {
	// Late result for a closed or replaced session
	if !m.open || msg.Session != m.session {
		return m, nil
	}

	m.loading = false
	if err := m.ctrl.Complete(msg.Result); err != nil {
		m.err = err
		return m, func() tea.Msg { return FetchFailedMsg{Err: err} }
	}

	m.err = nil
	// The controller drops the keyword with every page
	m.search.SetValue("")
	m = m.clamp()

	loaded := PageLoadedMsg{Total: m.ctrl.Len(), HasMore: m.ctrl.HasMore()}
	m, cmd := m.scrolled()
	return m, tea.Batch(func() tea.Msg { return loaded }, cmd)
}

func (m Model) applyFilter() Model {
	if m.ctrl == nil {
		return m
	}
	m.ctrl.ApplyFilter(m.search.Value())
	return m.clamp()
}

func (m Model) startFetch(f contacts.Fetch) (Model, tea.Cmd) {
	if f == nil {
		return m, nil
	}
	m.loading = true
	session := m.session
	fetch := func() tea.Msg {
		return ContactsFetchedMsg{Session: session, Result: f()}
	}
	return m, tea.Batch(fetch, m.spinner.Tick)
}

// scrolled reports the scroll position in lines to the controller
func (m Model) scrolled() (Model, tea.Cmd) {
	if !m.open {
		return m, nil
	}
	rh := m.rowHeight()
	pos := contacts.ScrollPosition{
		ContentHeight:  m.totalRows() * rh,
		Offset:         m.offset * rh,
		ViewportHeight: m.visibleRows() * rh,
	}
	return m.startFetch(m.ctrl.OnScrolledNear(m.ctx, pos, m.reloadDistance))
}

func (m Model) moveTo(row int) (Model, tea.Cmd) {
	if !m.open {
		return m, nil
	}
	m.selected = row
	m = m.clamp()
	return m.scrolled()
}

func (m Model) clamp() Model {
	total := m.totalRows()
	if m.selected >= total {
		m.selected = total - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	return m.ensureVisible()
}

func (m Model) ensureVisible() Model {
	visible := m.visibleRows()
	if m.selected < m.offset {
		m.offset = m.selected
	} else if m.selected >= m.offset+visible {
		m.offset = m.selected - visible + 1
	}
	maxOffset := m.totalRows() - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
	return m
}

func (m Model) totalRows() int {
	if m.ctrl == nil {
		return 1
	}
	return m.ctrl.RowCount(contacts.SectionCreateGroup) + m.ctrl.RowCount(contacts.SectionContacts)
}

// rowAt maps a flat row index onto the controller's sections
func (m Model) rowAt(flat int) contacts.Row {
	if m.ctrl == nil || flat == 0 {
		return contacts.Row{Kind: contacts.RowCreateGroup}
	}
	return m.ctrl.RowAt(contacts.SectionContacts, flat-m.ctrl.RowCount(contacts.SectionCreateGroup))
}

func (m Model) rowHeight() int {
	if m.separators {
		return 2
	}
	return 1
}

func (m Model) listHeight() int {
	h := m.height - chromeHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) visibleRows() int {
	n := m.listHeight() / m.rowHeight()
	if n < 1 {
		n = 1
	}
	return n
}

// View renders the picker
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	// Header
	b.WriteString(m.styles.PickerHeader.Width(m.width).Render("New Chat"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")

	lines := 0
	listHeight := m.listHeight()
	total := m.totalRows()
	for i := m.offset; i < total && i < m.offset+m.visibleRows(); i++ {
		b.WriteString(renderCell(m.styles, m.rowAt(i), m.width, i == m.selected))
		b.WriteString("\n")
		lines++
		if m.separators && lines < listHeight {
			b.WriteString(renderSeparator(m.styles, m.width))
			b.WriteString("\n")
			lines++
		}
	}

	if empty := m.emptyText(); empty != "" && lines < listHeight {
		b.WriteString(m.styles.PickerEmpty.Render(" " + empty))
		b.WriteString("\n")
		lines++
	}

	// Pad remaining lines
	for ; lines < listHeight; lines++ {
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) emptyText() string {
	if m.ctrl == nil || m.loading || m.ctrl.RowCount(contacts.SectionContacts) > 0 {
		return ""
	}
	if kw := m.ctrl.Keyword(); kw != "" {
		return fmt.Sprintf("No contacts match %q", kw)
	}
	if m.err != nil {
		return "Contacts unavailable"
	}
	return "No contacts yet"
}
