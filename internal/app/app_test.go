package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meszmate/newchat/internal/config"
	"github.com/meszmate/newchat/internal/contacts"
	"github.com/meszmate/newchat/internal/roster"
	"github.com/meszmate/newchat/pkg/plugin"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.General.DataDir = t.TempDir()
	cfg.General.Account = "me@example.com"
	cfg.Contacts.PageSize = 2
	if mutate != nil {
		mutate(cfg)
	}

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestImportThenPageFromCache(t *testing.T) {
	a := newTestApp(t, nil)

	if _, ok := a.LastImport(); ok {
		t.Fatalf("expected no import recorded yet")
	}

	dir := roster.NewDirectory()
	dir.Set(contacts.Contact{ID: "carol@example.com", Name: "Carol"})
	dir.Set(contacts.Contact{ID: "alice@example.com/phone", Name: "Alice"})
	dir.Set(contacts.Contact{ID: "bob@example.com", Name: "Bob"})

	res, err := a.ImportContacts(dir, false)
	if err != nil {
		t.Fatalf("ImportContacts failed: %v", err)
	}
	if res.Imported != 3 || res.Total != 3 {
		t.Fatalf("expected 3 imported of 3, got %+v", res)
	}
	if _, ok := a.LastImport(); !ok {
		t.Fatalf("expected import time to be recorded")
	}

	src, err := a.NewContactSource()
	if err != nil {
		t.Fatalf("NewContactSource failed: %v", err)
	}

	ctx := context.Background()
	first, err := src.FetchNextPage(ctx)
	if err != nil {
		t.Fatalf("FetchNextPage failed: %v", err)
	}
	if len(first.Contacts) != 2 || !first.HasMore {
		t.Fatalf("unexpected first page %+v", first)
	}
	if first.Contacts[0].ID != "alice@example.com" {
		t.Fatalf("expected bare alice first, got %q", first.Contacts[0].ID)
	}

	second, err := src.FetchNextPage(ctx)
	if err != nil {
		t.Fatalf("FetchNextPage failed: %v", err)
	}
	if len(second.Contacts) != 1 || second.HasMore {
		t.Fatalf("unexpected second page %+v", second)
	}
}

func TestPluginSourceMissingBinary(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Contacts.Source = config.SourcePlugin
		cfg.Contacts.PluginPath = filepath.Join(t.TempDir(), "missing")
	})

	_, err := a.NewContactSource()
	if !errors.Is(err, plugin.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIntentsPublished(t *testing.T) {
	a := newTestApp(t, nil)

	got := make(chan EventMsg, 2)
	a.Bus().Subscribe(EventOpenConversation, func(e EventMsg) { got <- e })
	a.Bus().Subscribe(EventCreateGroup, func(e EventMsg) { got <- e })

	a.OpenConversation("bob@example.com", "Bob")

	select {
	case e := <-got:
		intent, ok := e.Data.(ConversationIntent)
		if !ok || intent.ContactID != "bob@example.com" || intent.Title != "Bob" {
			t.Fatalf("unexpected event %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for open conversation event")
	}

	if intent, ok := a.LastIntent(); !ok || intent.Title != "Bob" {
		t.Fatalf("expected last intent Bob, got %+v", intent)
	}

	a.CreateGroup()
	select {
	case e := <-got:
		if e.Type != EventCreateGroup {
			t.Fatalf("expected create group event, got %s", e.Type)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for create group event")
	}

	// The UI receives the same events in order
	msg := a.ListenForEvents()()
	if e, ok := msg.(EventMsg); !ok || e.Type != EventOpenConversation {
		t.Fatalf("expected open conversation for UI, got %#v", msg)
	}
}

func TestImportReplaceDropsMissingContacts(t *testing.T) {
	a := newTestApp(t, nil)

	first := roster.NewDirectory()
	first.Set(contacts.Contact{ID: "alice@example.com", Name: "Alice"})
	first.Set(contacts.Contact{ID: "bob@example.com", Name: "Bob"})
	if _, err := a.ImportContacts(first, false); err != nil {
		t.Fatalf("ImportContacts failed: %v", err)
	}

	second := roster.NewDirectory()
	second.Set(contacts.Contact{ID: "carol@example.com", Name: "Carol"})

	res, err := a.ImportContacts(second, false)
	if err != nil {
		t.Fatalf("ImportContacts failed: %v", err)
	}
	if res.Imported != 1 || res.Total != 3 {
		t.Fatalf("expected merge to keep 3 contacts, got %+v", res)
	}

	res, err = a.ImportContacts(second, true)
	if err != nil {
		t.Fatalf("ImportContacts with replace failed: %v", err)
	}
	if res.Imported != 1 || res.Total != 1 {
		t.Fatalf("expected replace to leave 1 contact, got %+v", res)
	}
}

func TestFileSourcePagesContactFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.toml")
	data := `
[[contact]]
id = "carol@example.com"
name = "Carol"

[[contact]]
id = "alice@example.com/phone"
name = "Alice"

[[contact]]
id = "bob@example.com"
name = "Bob"
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("failed to write contacts: %v", err)
	}

	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Contacts.Source = config.SourceFile
		cfg.Contacts.FilePath = path
	})

	src, err := a.NewContactSource()
	if err != nil {
		t.Fatalf("NewContactSource failed: %v", err)
	}

	ctx := context.Background()
	first, err := src.FetchNextPage(ctx)
	if err != nil {
		t.Fatalf("FetchNextPage failed: %v", err)
	}
	if len(first.Contacts) != 2 || !first.HasMore || first.Contacts[0].ID != "alice@example.com" {
		t.Fatalf("unexpected first page %+v", first)
	}
	second, err := src.FetchNextPage(ctx)
	if err != nil {
		t.Fatalf("FetchNextPage failed: %v", err)
	}
	if len(second.Contacts) != 1 || second.HasMore || second.Contacts[0].Name != "Carol" {
		t.Fatalf("unexpected second page %+v", second)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Contacts.Source = config.SourceFile
		cfg.Contacts.FilePath = filepath.Join(t.TempDir(), "missing.toml")
	})

	if _, err := a.NewContactSource(); err == nil {
		t.Fatalf("expected error for missing contact file")
	}
}

func TestTypedSubscriptions(t *testing.T) {
	a := newTestApp(t, nil)

	intents := make(chan ConversationIntent, 1)
	groups := make(chan struct{}, 1)
	failures := make(chan error, 1)
	a.Bus().OnOpenConversation(func(i ConversationIntent) { intents <- i })
	a.Bus().OnCreateGroup(func() { groups <- struct{}{} })
	a.Bus().OnFetchFailed(func(err error) { failures <- err })

	a.OpenConversation("dave@example.com", "Dave")
	a.CreateGroup()
	a.FetchFailed(contacts.ErrFetchFailed)

	select {
	case i := <-intents:
		if i.ContactID != "dave@example.com" || i.Title != "Dave" {
			t.Fatalf("unexpected intent %+v", i)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for intent")
	}
	select {
	case <-groups:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for create group")
	}
	select {
	case err := <-failures:
		if !errors.Is(err, contacts.ErrFetchFailed) {
			t.Fatalf("unexpected error %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for fetch failure")
	}
}
