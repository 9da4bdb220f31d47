package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meszmate/newchat/internal/config"
)

func setXDG(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	return root
}

func run(args ...string) error {
	return makeApp().Run(context.Background(), append([]string{"newchat"}, args...))
}

func TestConfigInitWritesToConfigFlag(t *testing.T) {
	root := setXDG(t)
	path := filepath.Join(root, "custom.toml")

	if err := run("--config", path, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to be written: %v", path, err)
	}
	if _, err := os.Stat(filepath.Join(root, "config", "newchat", "config.toml")); !os.IsNotExist(err) {
		t.Fatalf("expected default config untouched, stat err %v", err)
	}

	err := run("--config", path, "config", "init")
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected refusal to overwrite, got %v", err)
	}

	if err := run("--config", path, "config", "init", "--force"); err != nil {
		t.Fatalf("config init --force failed: %v", err)
	}
}

func TestImportReplace(t *testing.T) {
	root := setXDG(t)

	first := filepath.Join(root, "first.toml")
	second := filepath.Join(root, "second.toml")
	writeFile(t, first, "[[contact]]\nid = \"alice@example.com\"\nname = \"Alice\"\n\n[[contact]]\nid = \"bob@example.com\"\nname = \"Bob\"\n")
	writeFile(t, second, "[[contact]]\nid = \"carol@example.com\"\nname = \"Carol\"\n")

	if err := run("import", first); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if err := run("import", "--replace", second); err != nil {
		t.Fatalf("import --replace failed: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.General.DataDir, "newchat.db")); err != nil {
		t.Fatalf("expected cache database: %v", err)
	}
}

func TestThemesLists(t *testing.T) {
	setXDG(t)
	if err := run("themes"); err != nil {
		t.Fatalf("themes failed: %v", err)
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
