package keybindings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeSearch:
		return "SEARCH"
	default:
		return "UNKNOWN"
	}
}

// Action represents a keybinding action
type Action int

const (
	ActionNone Action = iota
	// Navigation
	ActionMoveUp
	ActionMoveDown
	ActionMoveTop
	ActionMoveBottom
	ActionPageUp
	ActionPageDown
	ActionHalfPageUp
	ActionHalfPageDown

	// Mode switching
	ActionEnterSearch
	ActionExitMode

	// Selection
	ActionSelect
	ActionCreateGroup

	// Search
	ActionClearSearch

	// UI
	ActionRefresh
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:         "none",
	ActionMoveUp:       "move_up",
	ActionMoveDown:     "move_down",
	ActionMoveTop:      "move_top",
	ActionMoveBottom:   "move_bottom",
	ActionPageUp:       "page_up",
	ActionPageDown:     "page_down",
	ActionHalfPageUp:   "half_page_up",
	ActionHalfPageDown: "half_page_down",
	ActionEnterSearch:  "enter_search",
	ActionExitMode:     "exit_mode",
	ActionSelect:       "select",
	ActionCreateGroup:  "create_group",
	ActionClearSearch:  "clear_search",
	ActionRefresh:      "refresh",
	ActionQuit:         "quit",
}

// String returns the action name used in logs
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Manager handles keybindings and mode management.
//
// Normal mode supports vim-like rune sequences (gg, ZZ) and a count prefix.
// Search mode only binds whole non-text keys; every printable key belongs to
// the search field.
type Manager struct {
	mode        Mode
	keys        map[string]Action
	sequences   map[string]Action
	search      map[tea.KeyType]Action
	pendingKeys string
	count       int
	countBuffer string
}

// NewManager creates a new keybinding manager
func NewManager() *Manager {
	return &Manager{
		mode: ModeNormal,
		keys: map[string]Action{
			"down":   ActionMoveDown,
			"up":     ActionMoveUp,
			"home":   ActionMoveTop,
			"end":    ActionMoveBottom,
			"ctrl+u": ActionHalfPageUp,
			"ctrl+d": ActionHalfPageDown,
			"ctrl+b": ActionPageUp,
			"ctrl+f": ActionPageDown,
			"pgup":   ActionPageUp,
			"pgdown": ActionPageDown,
			"esc":    ActionClearSearch,
			"enter":  ActionSelect,
			"ctrl+r": ActionRefresh,
			"ctrl+c": ActionQuit,
		},
		sequences: map[string]Action{
			"j":  ActionMoveDown,
			"k":  ActionMoveUp,
			"gg": ActionMoveTop,
			"G":  ActionMoveBottom,
			"/":  ActionEnterSearch,
			"i":  ActionEnterSearch,
			"o":  ActionSelect,
			"gC": ActionCreateGroup,
			"q":  ActionQuit,
			"ZZ": ActionQuit,
		},
		search: map[tea.KeyType]Action{
			tea.KeyEscape: ActionExitMode,
			tea.KeyEnter:  ActionSelect,
			tea.KeyUp:     ActionMoveUp,
			tea.KeyDown:   ActionMoveDown,
			tea.KeyCtrlU:  ActionClearSearch,
			tea.KeyCtrlR:  ActionRefresh,
			tea.KeyCtrlC:  ActionQuit,
		},
	}
}

// Mode returns the current mode
func (m *Manager) Mode() Mode {
	return m.mode
}

// SetMode sets the current mode
func (m *Manager) SetMode(mode Mode) {
	m.mode = mode
	m.reset()
}

// Count returns the current count prefix (for commands like 5j)
func (m *Manager) Count() int {
	if m.count == 0 {
		return 1
	}
	return m.count
}

// HandleKey processes a key message and returns the corresponding action
func (m *Manager) HandleKey(msg tea.KeyMsg) Action {
	if m.mode == ModeSearch {
		m.count = 0
		if msg.Alt {
			return ActionNone
		}
		return m.search[msg.Type]
	}
	return m.handleNormal(msg)
}

func (m *Manager) handleNormal(msg tea.KeyMsg) Action {
	key := msg.String()

	// Count prefix
	if msg.Type == tea.KeyRunes && isDigit(key) && m.pendingKeys == "" {
		if key != "0" || m.countBuffer != "" {
			m.countBuffer += key
			return ActionNone
		}
	}

	m.count = parseInt(m.countBuffer)

	// Named keys never take part in a sequence
	if msg.Type != tea.KeyRunes || msg.Alt {
		m.pendingKeys = ""
		m.countBuffer = ""
		return m.keys[key]
	}

	m.pendingKeys += key
	if action, ok := m.sequences[m.pendingKeys]; ok {
		m.pendingKeys = ""
		m.countBuffer = ""
		return action
	}
	if m.hasPendingPrefix() {
		return ActionNone
	}

	m.reset()
	return ActionNone
}

// hasPendingPrefix checks if pending keys could be a prefix of a binding
func (m *Manager) hasPendingPrefix() bool {
	for binding := range m.sequences {
		if strings.HasPrefix(binding, m.pendingKeys) && binding != m.pendingKeys {
			return true
		}
	}
	return false
}

func (m *Manager) reset() {
	m.pendingKeys = ""
	m.countBuffer = ""
	m.count = 0
}

// isDigit checks if a string is a single digit
func isDigit(s string) bool {
	if len(s) != 1 {
		return false
	}
	return s[0] >= '0' && s[0] <= '9'
}

// parseInt parses an integer from a string
func parseInt(s string) int {
	result := 0
	for _, c := range s {
		if c >= '0' && c <= '9' {
			result = result*10 + int(c-'0')
		}
	}
	return result
}
