package ui

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/meszmate/newchat/internal/app"
	"github.com/meszmate/newchat/internal/config"
	"github.com/meszmate/newchat/internal/contacts"
	"github.com/meszmate/newchat/internal/logging"
	"github.com/meszmate/newchat/internal/ui/components/newchat"
	"github.com/meszmate/newchat/internal/ui/components/statusbar"
	"github.com/meszmate/newchat/internal/ui/keybindings"
	"github.com/meszmate/newchat/internal/ui/theme"
)

// openPickerMsg opens the picker once the program is running
type openPickerMsg struct{}

// Model is the root Bubble Tea model
type Model struct {
	app    *app.App
	width  int
	height int
	ready  bool

	// Components
	picker    newchat.Model
	statusbar statusbar.Model

	// Managers
	keys   *keybindings.Manager
	themes *theme.Manager

	quitting bool
}

// NewModel creates a new root model
func NewModel(application *app.App) Model {
	cfg := application.Config()
	themeManager, err := LoadThemes(cfg)
	if err != nil {
		logging.Warn("theme not available, using default", "theme", cfg.UI.Theme, "err", err)
	}

	styles := themeManager.Styles()
	sb := statusbar.New(styles).
		SetAccount(cfg.General.Account).
		SetSource(cfg.Contacts.Source)
	if t, ok := application.LastImport(); ok {
		sb = sb.SetLastImport(t)
	}

	return Model{
		app:       application,
		keys:      keybindings.NewManager(),
		themes:    themeManager,
		picker:    newchat.New(styles, cfg.Contacts.ReloadDistance, cfg.UI.ShowSeparators),
		statusbar: sb,
	}
}

// LoadThemes returns a theme manager searching ./themes and the data
// directory, switched to the configured theme. When that theme cannot be
// loaded the manager stays on the default and the error is returned.
func LoadThemes(cfg *config.Config) (*theme.Manager, error) {
	m := theme.NewManager("themes", filepath.Join(cfg.General.DataDir, "themes"))
	if err := m.SetTheme(cfg.UI.Theme); err != nil {
		return m, err
	}
	return m, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.app.Init(),
		func() tea.Msg { return openPickerMsg{} },
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateComponentSizes()

	case openPickerMsg:
		cmds = append(cmds, m.openPicker())

	case tea.KeyMsg:
		action := m.keys.HandleKey(msg)
		if cmd := m.handleAction(action); cmd != nil {
			cmds = append(cmds, cmd)
		}

		// Unbound keys in search mode are typed into the search field
		if action == keybindings.ActionNone && m.keys.Mode() == keybindings.ModeSearch {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			cmds = append(cmds, cmd)
		}

	case newchat.ContactsFetchedMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)

	case newchat.PageLoadedMsg:
		m.app.ContactsLoaded(msg.Total, msg.HasMore)

	case newchat.FetchFailedMsg:
		m.app.FetchFailed(msg.Err)

	case newchat.CreateGroupMsg:
		m.app.CreateGroup()

	case newchat.OpenConversationMsg:
		m.app.OpenConversation(msg.ContactID, msg.Title)

	case app.EventMsg:
		// Handle application events
		m.handleAppEvent(msg)
		cmds = append(cmds, m.app.ListenForEvents())
	}

	if m.quitting {
		return m, tea.Quit
	}

	m.refreshStatus()
	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.quitting {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.picker.View(),
		m.statusbar.View(),
	)
}

// openPicker starts a picker session over a fresh contact source
func (m *Model) openPicker() tea.Cmd {
	source, err := m.app.NewContactSource()
	if err != nil {
		m.statusbar = m.statusbar.SetError(err)
		m.app.FetchFailed(err)
		return nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Open(m.app.Context(), source)
	return cmd
}

func (m *Model) handleAction(action keybindings.Action) tea.Cmd {
	if action == keybindings.ActionNone {
		return nil
	}

	var cmd tea.Cmd
	count := m.keys.Count()
	logging.Debug("key action", "action", action, "count", count, "mode", m.keys.Mode())

	switch action {
	case keybindings.ActionQuit:
		m.picker = m.picker.Close()
		m.quitting = true

	case keybindings.ActionMoveUp:
		m.picker, cmd = m.picker.MoveUp(count)

	case keybindings.ActionMoveDown:
		m.picker, cmd = m.picker.MoveDown(count)

	case keybindings.ActionMoveTop:
		m.picker, cmd = m.picker.MoveToTop()

	case keybindings.ActionMoveBottom:
		m.picker, cmd = m.picker.MoveToBottom()

	case keybindings.ActionPageUp:
		m.picker, cmd = m.picker.PageUp()

	case keybindings.ActionPageDown:
		m.picker, cmd = m.picker.PageDown()

	case keybindings.ActionHalfPageUp:
		m.picker, cmd = m.picker.HalfPageUp()

	case keybindings.ActionHalfPageDown:
		m.picker, cmd = m.picker.HalfPageDown()

	case keybindings.ActionEnterSearch:
		m.keys.SetMode(keybindings.ModeSearch)
		m.picker, cmd = m.picker.FocusSearch()

	case keybindings.ActionExitMode:
		m.keys.SetMode(keybindings.ModeNormal)
		m.picker = m.picker.BlurSearch()

	case keybindings.ActionClearSearch:
		m.picker = m.picker.ClearSearch()

	case keybindings.ActionSelect:
		m.picker, cmd = m.picker.Select()

	case keybindings.ActionCreateGroup:
		cmd = func() tea.Msg { return newchat.CreateGroupMsg{} }

	case keybindings.ActionRefresh:
		if !m.picker.IsOpen() {
			return m.openPicker()
		}
		m.picker, cmd = m.picker.Refresh()
	}

	return cmd
}

// handleAppEvent handles events from the application layer
func (m *Model) handleAppEvent(event app.EventMsg) {
	switch event.Type {
	case app.EventOpenConversation:
		if intent, ok := event.Data.(app.ConversationIntent); ok {
			m.statusbar = m.statusbar.SetLastAction("Open conversation with " + intent.Title)
		}

	case app.EventCreateGroup:
		m.statusbar = m.statusbar.SetLastAction("Create group")

	case app.EventContactsLoaded:
		m.statusbar = m.statusbar.SetLastAction("")
	}
}

// refreshStatus copies picker state into the status bar
func (m *Model) refreshStatus() {
	m.statusbar = m.statusbar.SetMode(m.keys.Mode())
	m.statusbar = m.statusbar.SetLoading(m.picker.Loading(), m.picker.SpinnerView())

	ctrl := m.picker.Controller()
	if ctrl == nil {
		return
	}
	m.statusbar = m.statusbar.SetError(m.picker.Err())
	m.statusbar = m.statusbar.SetCounts(ctrl.Len(), ctrl.RowCount(contacts.SectionContacts), ctrl.HasMore())
}

// updateComponentSizes updates component dimensions based on window size
func (m *Model) updateComponentSizes() {
	statusHeight := 1
	mainHeight := m.height - statusHeight

	m.picker = m.picker.SetSize(m.width, mainHeight)
	m.statusbar = m.statusbar.SetWidth(m.width)
}
