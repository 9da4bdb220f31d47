package statusbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/meszmate/newchat/internal/ui/keybindings"
	"github.com/meszmate/newchat/internal/ui/theme"
)

// Model represents the status bar component
type Model struct {
	width      int
	mode       keybindings.Mode
	account    string
	source     string
	styles     *theme.Styles
	loading    bool
	spinner    string
	total      int
	visible    int
	hasMore    bool
	err        error
	lastAction string
	lastImport time.Time
}

// New creates a new status bar model
func New(styles *theme.Styles) Model {
	return Model{
		styles: styles,
		mode:   keybindings.ModeNormal,
	}
}

// SetWidth sets the status bar width
func (m Model) SetWidth(width int) Model {
	m.width = width
	return m
}

// SetStyles applies theme styles
func (m Model) SetStyles(styles *theme.Styles) Model {
	m.styles = styles
	return m
}

// SetMode sets the current mode
func (m Model) SetMode(mode keybindings.Mode) Model {
	m.mode = mode
	return m
}

// SetAccount sets the account the contacts belong to
func (m Model) SetAccount(account string) Model {
	m.account = account
	return m
}

// SetSource sets the contact source name
func (m Model) SetSource(source string) Model {
	m.source = source
	return m
}

// SetLoading sets the page loading state
func (m Model) SetLoading(loading bool, spinner string) Model {
	m.loading = loading
	m.spinner = spinner
	return m
}

// SetCounts sets how many contacts are loaded and shown
func (m Model) SetCounts(total, visible int, hasMore bool) Model {
	m.total = total
	m.visible = visible
	m.hasMore = hasMore
	return m
}

// SetError sets the last fetch error, nil clears it
func (m Model) SetError(err error) Model {
	m.err = err
	return m
}

// SetLastAction sets the most recent user intent
func (m Model) SetLastAction(action string) Model {
	m.lastAction = action
	return m
}

// SetLastImport sets when contacts were last imported
func (m Model) SetLastImport(t time.Time) Model {
	m.lastImport = t
	return m
}

// View renders the status bar
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	// Mode indicator
	modeStyle := m.styles.StatusModeNormal
	if m.mode == keybindings.ModeSearch {
		modeStyle = m.styles.StatusModeSearch
	}
	modeText := modeStyle.Render(m.mode.String())

	// Account and source
	var accountSection string
	if m.account != "" {
		accountSection = " " + m.styles.StatusAccount.Render(m.account)
		if m.source != "" {
			accountSection += fmt.Sprintf(" [%s]", m.source)
		}
	}

	// Loading or error indicator
	indicator := ""
	switch {
	case m.loading:
		spin := m.spinner
		if spin == "" {
			spin = "..."
		}
		indicator = m.styles.StatusWarning.Render(" " + spin + " loading")
	case m.err != nil:
		indicator = m.styles.StatusError.Render(" ✗ " + m.err.Error())
	case m.lastAction != "":
		indicator = m.styles.StatusSuccess.Render(" " + m.lastAction)
	}

	// Counts
	counts := fmt.Sprintf("%d/%d", m.visible, m.total)
	if m.hasMore {
		counts += "+"
	}
	if !m.lastImport.IsZero() {
		counts += " | imported " + m.lastImport.Format("2006-01-02 15:04")
	}

	left := fmt.Sprintf(" %s%s%s", modeText, accountSection, indicator)
	right := counts + " "

	// Calculate padding
	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	result := left + strings.Repeat(" ", padding) + right

	return m.styles.StatusBar.Width(m.width).Render(result)
}
