package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Source names accepted in [contacts] source
const (
	SourceCache  = "cache"
	SourcePlugin = "plugin"
	SourceFile   = "file"
)

// ErrConfigExists is returned by Save when it would overwrite a file
var ErrConfigExists = errors.New("config file already exists")

// Config represents the main application configuration
type Config struct {
	General  GeneralConfig  `toml:"general"`
	UI       UIConfig       `toml:"ui"`
	Contacts ContactsConfig `toml:"contacts"`
	Logging  LoggingConfig  `toml:"logging"`
	Storage  StorageConfig  `toml:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	DataDir string `toml:"data_dir"`
	// Account scopes the contact cache
	Account string `toml:"account"`
}

// UIConfig contains UI-related settings
type UIConfig struct {
	Theme          string `toml:"theme"`
	ShowSeparators bool   `toml:"show_separators"`
}

// ContactsConfig controls where contacts come from and how they are paged
type ContactsConfig struct {
	Source   string `toml:"source"`
	PageSize int    `toml:"page_size"`

	// ReloadDistance is how many lines before the end of the list the next
	// page is requested. Negative values mean unset.
	ReloadDistance int `toml:"reload_distance"`

	PluginPath string `toml:"plugin_path"`
	// FilePath is a TOML contact file paged in memory
	FilePath string `toml:"file_path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level   string `toml:"level"`
	File    string `toml:"file"`
	Console bool   `toml:"console"`
}

// StorageConfig contains storage settings
type StorageConfig struct {
	// VacuumOnStartup runs database vacuum on startup
	VacuumOnStartup bool `toml:"vacuum_on_startup"`
}

// Paths holds the XDG-compliant paths for the application
type Paths struct {
	ConfigDir string
	DataDir   string
	CacheDir  string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			DataDir: "",
			Account: "default",
		},
		UI: UIConfig{
			Theme:          "rainbow",
			ShowSeparators: false,
		},
		Contacts: ContactsConfig{
			Source:         SourceCache,
			PageSize:       50,
			ReloadDistance: 2,
		},
		Logging: LoggingConfig{
			Level:   "info",
			File:    "",
			Console: false,
		},
		Storage: StorageConfig{
			VacuumOnStartup: false,
		},
	}
}

// GetPaths returns XDG-compliant paths for the application
func GetPaths() (*Paths, error) {
	configDir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return nil, err
	}
	dataDir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return nil, err
	}
	cacheDir, err := xdgDir("XDG_CACHE_HOME", ".cache")
	if err != nil {
		return nil, err
	}

	return &Paths{
		ConfigDir: filepath.Join(configDir, "newchat"),
		DataDir:   filepath.Join(dataDir, "newchat"),
		CacheDir:  filepath.Join(cacheDir, "newchat"),
	}, nil
}

func xdgDir(env, fallback string) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, fallback), nil
}

// EnsureDirectories creates the necessary directories
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load loads the configuration from the default config file
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads the configuration from path. An empty path means
// config.toml in the XDG config directory. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	paths, err := GetPaths()
	if err != nil {
		return nil, err
	}

	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	if path == "" {
		path = filepath.Join(paths.ConfigDir, "config.toml")
	}
	path = expandPath(path)

	cfg := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	cfg.applyDefaults(paths)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills unset values and expands paths
func (c *Config) applyDefaults(paths *Paths) {
	if c.General.DataDir == "" {
		c.General.DataDir = paths.DataDir
	} else {
		c.General.DataDir = expandPath(c.General.DataDir)
	}

	if c.General.Account == "" {
		c.General.Account = "default"
	}

	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(c.General.DataDir, "newchat.log")
	} else {
		c.Logging.File = expandPath(c.Logging.File)
	}

	if c.Contacts.Source == "" {
		c.Contacts.Source = SourceCache
	}
	if c.Contacts.PageSize <= 0 {
		c.Contacts.PageSize = 50
	}
	if c.Contacts.ReloadDistance < 0 {
		c.Contacts.ReloadDistance = DefaultConfig().Contacts.ReloadDistance
	}
	c.Contacts.PluginPath = expandPath(c.Contacts.PluginPath)
	c.Contacts.FilePath = expandPath(c.Contacts.FilePath)
}

// Validate checks settings that have no sensible fallback
func (c *Config) Validate() error {
	switch c.Contacts.Source {
	case SourceCache:
	case SourcePlugin:
		if c.Contacts.PluginPath == "" {
			return fmt.Errorf("contacts.plugin_path is required when source is %q", SourcePlugin)
		}
	case SourceFile:
		if c.Contacts.FilePath == "" {
			return fmt.Errorf("contacts.file_path is required when source is %q", SourceFile)
		}
	default:
		return fmt.Errorf("unknown contacts.source %q", c.Contacts.Source)
	}
	return nil
}

// DefaultPath returns config.toml in the XDG config directory
func DefaultPath() (string, error) {
	paths, err := GetPaths()
	if err != nil {
		return "", err
	}
	return filepath.Join(paths.ConfigDir, "config.toml"), nil
}

// Save writes cfg to path, or to DefaultPath when path is empty, and returns
// the path written. An existing file is only replaced when overwrite is set.
func Save(cfg *Config, path string, overwrite bool) (string, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return "", err
		}
	}
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0600)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		return "", fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	return path, nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
