package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meszmate/newchat/internal/config"
	"github.com/meszmate/newchat/internal/contacts"
	"github.com/meszmate/newchat/internal/logging"
	"github.com/meszmate/newchat/internal/roster"
	"github.com/meszmate/newchat/internal/storage/sqlite"
	"github.com/meszmate/newchat/pkg/plugin"
)

// EventType represents the type of event
type EventType int

const (
	EventContactsLoaded EventType = iota
	EventFetchFailed
	EventOpenConversation
	EventCreateGroup
)

// String returns the event name used in logs
func (t EventType) String() string {
	switch t {
	case EventContactsLoaded:
		return "contacts_loaded"
	case EventFetchFailed:
		return "fetch_failed"
	case EventOpenConversation:
		return "open_conversation"
	case EventCreateGroup:
		return "create_group"
	default:
		return "unknown"
	}
}

// EventMsg represents an event from the app layer
type EventMsg struct {
	Type EventType
	Data interface{}
}

// ConversationIntent asks for a one-to-one conversation screen
type ConversationIntent struct {
	ContactID string
	Title     string
}

// LoadedInfo describes a completed page
type LoadedInfo struct {
	Total   int
	HasMore bool
}

const lastImportKey = "last_import"

// App represents the main application
type App struct {
	cfg    *config.Config
	events chan EventMsg
	ctx    context.Context
	cancel context.CancelFunc
	bus    *EventBus

	// Contact sources
	storage *sqlite.DB
	host    *plugin.Host

	mu         sync.RWMutex
	lastIntent *ConversationIntent
}

// New creates a new App instance. Plugin logs go to logOutput.
func New(cfg *config.Config, logOutput io.Writer) (*App, error) {
	if err := os.MkdirAll(cfg.General.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	storage, err := sqlite.New(cfg.General.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logging.Debug("storage initialized", "data_dir", cfg.General.DataDir)

	if cfg.Storage.VacuumOnStartup {
		if err := storage.Vacuum(); err != nil {
			logging.Warn("vacuum failed", "err", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		cfg:     cfg,
		events:  make(chan EventMsg, 100),
		ctx:     ctx,
		cancel:  cancel,
		bus:     NewEventBus(),
		storage: storage,
		host:    plugin.NewHost(logOutput),
	}, nil
}

// Config returns the configuration
func (a *App) Config() *config.Config {
	return a.cfg
}

// Context is cancelled when the app closes
func (a *App) Context() context.Context {
	return a.ctx
}

// Bus returns the event bus intents are published on
func (a *App) Bus() *EventBus {
	return a.bus
}

// Init returns an initialization command
func (a *App) Init() tea.Cmd {
	return a.ListenForEvents()
}

// ListenForEvents waits for the next app event and hands it to the UI. The
// UI re-arms it after every EventMsg.
func (a *App) ListenForEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case event := <-a.events:
			return event
		case <-a.ctx.Done():
			return nil
		}
	}
}

// publish sends an event to bus subscribers and to the UI
func (a *App) publish(event EventMsg) {
	a.bus.Publish(event)

	select {
	case a.events <- event:
	default:
		// Channel full, drop event
	}
}

// NewContactSource returns a fresh source for one picker session. Each
// session pages from the start.
func (a *App) NewContactSource() (contacts.Source, error) {
	switch a.cfg.Contacts.Source {
	case config.SourcePlugin:
		dir := a.host.Directory()
		if dir == nil {
			var err error
			dir, err = a.host.Load(a.cfg.Contacts.PluginPath)
			if err != nil {
				return nil, err
			}
		}
		return plugin.NewSource(dir, a.cfg.Contacts.PageSize), nil
	case config.SourceFile:
		dir, err := roster.LoadFile(a.cfg.Contacts.FilePath)
		if err != nil {
			return nil, err
		}
		logging.Debug("contact file loaded", "file", a.cfg.Contacts.FilePath, "count", dir.Count())
		return dir.Pager(a.cfg.Contacts.PageSize), nil
	default:
		return sqlite.NewSource(a.storage, a.cfg.General.Account, a.cfg.Contacts.PageSize), nil
	}
}

// ContactsLoaded records a completed page
func (a *App) ContactsLoaded(total int, hasMore bool) {
	logging.Debug("contacts page loaded", "total", total, "has_more", hasMore)
	a.publish(EventMsg{Type: EventContactsLoaded, Data: LoadedInfo{Total: total, HasMore: hasMore}})
}

// FetchFailed records a failed page fetch. No retry is scheduled.
func (a *App) FetchFailed(err error) {
	logging.Warn("contact fetch failed", "err", err)
	a.publish(EventMsg{Type: EventFetchFailed, Data: err})
}

// OpenConversation publishes a request for a one-to-one conversation
func (a *App) OpenConversation(contactID, title string) {
	intent := ConversationIntent{ContactID: contactID, Title: title}

	a.mu.Lock()
	a.lastIntent = &intent
	a.mu.Unlock()

	logging.Info("open conversation", "contact", contactID)
	a.publish(EventMsg{Type: EventOpenConversation, Data: intent})
}

// CreateGroup publishes a request for the group creation flow
func (a *App) CreateGroup() {
	logging.Info("create group requested")
	a.publish(EventMsg{Type: EventCreateGroup})
}

// LastIntent returns the most recent conversation request, if any
func (a *App) LastIntent() (ConversationIntent, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.lastIntent == nil {
		return ConversationIntent{}, false
	}
	return *a.lastIntent, true
}

// ImportResult reports what an import wrote to the cache
type ImportResult struct {
	Imported int
	// Total is the account's contact count after the import
	Total int
}

// ImportContacts stores a directory in the contact cache for the configured
// account. With replace set, contacts not in dir are dropped first.
func (a *App) ImportContacts(dir *roster.Directory, replace bool) (ImportResult, error) {
	account := a.cfg.General.Account
	if replace {
		if err := a.storage.DeleteContacts(account); err != nil {
			return ImportResult{}, fmt.Errorf("failed to clear contacts: %w", err)
		}
	}

	all := dir.All()
	if err := a.storage.SaveContacts(account, all); err != nil {
		return ImportResult{}, fmt.Errorf("failed to save contacts: %w", err)
	}
	if err := a.storage.SetAppState(lastImportKey, strconv.FormatInt(time.Now().Unix(), 10)); err != nil {
		logging.Warn("failed to record import time", "err", err)
	}

	total, err := a.storage.ContactCount(account)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to count contacts: %w", err)
	}
	return ImportResult{Imported: len(all), Total: total}, nil
}

// LastImport returns when contacts were last imported into the cache
func (a *App) LastImport() (time.Time, bool) {
	v, err := a.storage.GetAppState(lastImportKey)
	if err != nil || v == "" {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0), true
}

// Close closes the app
func (a *App) Close() {
	a.cancel()
	a.bus.Clear()
	a.host.Close()
	if a.storage != nil {
		a.storage.Close()
	}
}
