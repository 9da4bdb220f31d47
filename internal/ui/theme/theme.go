package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a complete UI theme
type Theme struct {
	Name        string          `toml:"name"`
	Description string          `toml:"description"`
	Colors      ColorsConfig    `toml:"colors"`
	Picker      PickerConfig    `toml:"picker"`
	Search      SearchConfig    `toml:"search"`
	StatusBar   StatusBarConfig `toml:"statusbar"`
}

// ColorsConfig contains the base color palette
type ColorsConfig struct {
	Primary    string `toml:"primary"`
	Secondary  string `toml:"secondary"`
	Accent     string `toml:"accent"`
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Muted      string `toml:"muted"`
	Border     string `toml:"border"`
	Error      string `toml:"error"`
	Warning    string `toml:"warning"`
	Success    string `toml:"success"`
}

// PickerConfig contains contact list styles
type PickerConfig struct {
	HeaderFg    string `toml:"header_fg"`
	HeaderBg    string `toml:"header_bg"`
	SelectedFg  string `toml:"selected_fg"`
	SelectedBg  string `toml:"selected_bg"`
	ContactFg   string `toml:"contact_fg"`
	AvatarFg    string `toml:"avatar_fg"`
	ActionFg    string `toml:"action_fg"`
	SeparatorFg string `toml:"separator_fg"`
}

// SearchConfig contains search field styles
type SearchConfig struct {
	PromptFg      string `toml:"prompt_fg"`
	TextFg        string `toml:"text_fg"`
	PlaceholderFg string `toml:"placeholder_fg"`
	SpinnerFg     string `toml:"spinner_fg"`
}

// StatusBarConfig contains status bar styles
type StatusBarConfig struct {
	Fg         string `toml:"fg"`
	Bg         string `toml:"bg"`
	ModeNormal string `toml:"mode_normal"`
	ModeSearch string `toml:"mode_search"`
	AccountFg  string `toml:"account_fg"`
}

// Styles contains the compiled lipgloss styles for a theme
type Styles struct {
	// Base styles
	Base   lipgloss.Style
	Border lipgloss.Style

	// Picker styles
	PickerHeader    lipgloss.Style
	PickerSelected  lipgloss.Style
	PickerContact   lipgloss.Style
	PickerAvatar    lipgloss.Style
	PickerAction    lipgloss.Style
	PickerSeparator lipgloss.Style
	PickerEmpty     lipgloss.Style

	// Search styles
	SearchPrompt      lipgloss.Style
	SearchText        lipgloss.Style
	SearchPlaceholder lipgloss.Style
	Spinner           lipgloss.Style

	// Status bar styles
	StatusBar        lipgloss.Style
	StatusModeNormal lipgloss.Style
	StatusModeSearch lipgloss.Style
	StatusAccount    lipgloss.Style
	StatusError      lipgloss.Style
	StatusWarning    lipgloss.Style
	StatusSuccess    lipgloss.Style
}

// Manager handles theme loading and switching
type Manager struct {
	themes      map[string]*Theme
	current     *Theme
	currentName string
	styles      *Styles
	themeDirs   []string
}

// NewManager creates a new theme manager
func NewManager(themeDirs ...string) *Manager {
	m := &Manager{
		themes:    make(map[string]*Theme),
		themeDirs: themeDirs,
	}

	// Load built-in themes
	m.themes["rainbow"] = RainbowTheme()
	m.themes["nord"] = NordTheme()
	m.themes["gruvbox"] = GruvboxTheme()

	// Set rainbow as default
	m.current = m.themes["rainbow"]
	m.currentName = "rainbow"
	m.styles = m.compileStyles(m.current)

	return m
}

// LoadTheme loads a theme from a TOML file
func (m *Manager) LoadTheme(name string) error {
	for _, dir := range m.themeDirs {
		path := filepath.Join(dir, name+".toml")
		if _, err := os.Stat(path); err == nil {
			// Unset keys inherit from the default theme
			theme := *RainbowTheme()
			if _, err := toml.DecodeFile(path, &theme); err != nil {
				return fmt.Errorf("failed to parse theme file %s: %w", path, err)
			}
			theme.Name = name
			m.themes[name] = &theme
			return nil
		}
	}
	return fmt.Errorf("theme %s not found", name)
}

// SetTheme switches to a different theme
func (m *Manager) SetTheme(name string) error {
	theme, ok := m.themes[name]
	if !ok {
		// Try to load it
		if err := m.LoadTheme(name); err != nil {
			return err
		}
		theme = m.themes[name]
	}
	m.current = theme
	m.currentName = name
	m.styles = m.compileStyles(theme)
	return nil
}

// Current returns the current theme
func (m *Manager) Current() *Theme {
	return m.current
}

// CurrentName returns the current theme name
func (m *Manager) CurrentName() string {
	return m.currentName
}

// Styles returns the compiled styles for the current theme
func (m *Manager) Styles() *Styles {
	return m.styles
}

// AvailableThemes returns a sorted list of available theme names
func (m *Manager) AvailableThemes() []string {
	names := make([]string, 0, len(m.themes))
	for name := range m.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// compileStyles compiles a theme into lipgloss styles
func (m *Manager) compileStyles(t *Theme) *Styles {
	s := &Styles{}

	// Base styles
	s.Base = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Colors.Foreground)).
		Background(lipgloss.Color(t.Colors.Background))

	s.Border = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Colors.Border))

	// Picker styles
	s.PickerHeader = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Picker.HeaderFg)).
		Background(lipgloss.Color(t.Picker.HeaderBg)).
		Bold(true).
		Padding(0, 1)

	s.PickerSelected = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Picker.SelectedFg)).
		Background(lipgloss.Color(t.Picker.SelectedBg)).
		Bold(true)

	s.PickerContact = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Picker.ContactFg))

	s.PickerAvatar = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Picker.AvatarFg)).
		Bold(true)

	s.PickerAction = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Picker.ActionFg)).
		Bold(true)

	s.PickerSeparator = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Picker.SeparatorFg))

	s.PickerEmpty = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Colors.Muted)).
		Italic(true)

	// Search styles
	s.SearchPrompt = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Search.PromptFg)).
		Bold(true)

	s.SearchText = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Search.TextFg))

	s.SearchPlaceholder = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Search.PlaceholderFg))

	s.Spinner = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Search.SpinnerFg))

	// Status bar styles
	s.StatusBar = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.StatusBar.Fg)).
		Background(lipgloss.Color(t.StatusBar.Bg))

	s.StatusModeNormal = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Colors.Background)).
		Background(lipgloss.Color(t.StatusBar.ModeNormal)).
		Bold(true).
		Padding(0, 1)

	s.StatusModeSearch = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Colors.Background)).
		Background(lipgloss.Color(t.StatusBar.ModeSearch)).
		Bold(true).
		Padding(0, 1)

	s.StatusAccount = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.StatusBar.AccountFg)).
		Background(lipgloss.Color(t.StatusBar.Bg))

	s.StatusError = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Colors.Error)).
		Background(lipgloss.Color(t.StatusBar.Bg))

	s.StatusWarning = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Colors.Warning)).
		Background(lipgloss.Color(t.StatusBar.Bg))

	s.StatusSuccess = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Colors.Success)).
		Background(lipgloss.Color(t.StatusBar.Bg))

	return s
}
