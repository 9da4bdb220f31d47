package newchat

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/meszmate/newchat/internal/contacts"
	"github.com/meszmate/newchat/internal/ui/theme"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Anna", "A"},
		{"anna smith", "AS"},
		{"Jean Luc Picard", "JL"},
		{"  ", "?"},
		{"@bob", "B"},
		{"élodie durand", "ÉD"},
	}

	for _, tt := range tests {
		if got := initials(tt.name); got != tt.want {
			t.Errorf("initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRenderCell(t *testing.T) {
	styles := theme.NewManager().Styles()

	group := renderCell(styles, contacts.Row{Kind: contacts.RowCreateGroup}, 30, false)
	if !strings.Contains(group, "+") || !strings.Contains(group, CreateGroupTitle) {
		t.Fatalf("unexpected create group cell %q", group)
	}

	contact := contacts.Row{Kind: contacts.RowContact, Contact: contacts.Contact{ID: "x@example.com", Name: "Anna Smith"}}
	cell := renderCell(styles, contact, 30, true)
	if !strings.Contains(cell, "[AS]") || !strings.Contains(cell, "Anna Smith") {
		t.Fatalf("unexpected contact cell %q", cell)
	}
	if w := lipgloss.Width(cell); w != 30 {
		t.Fatalf("expected width 30, got %d", w)
	}
}

func TestRenderCellTruncates(t *testing.T) {
	styles := theme.NewManager().Styles()
	long := contacts.Row{Kind: contacts.RowContact, Contact: contacts.Contact{Name: strings.Repeat("x", 100)}}

	cell := renderCell(styles, long, 20, false)
	if w := lipgloss.Width(cell); w > 20 {
		t.Fatalf("expected cell to fit in 20 columns, got %d", w)
	}
	if !strings.Contains(cell, "…") {
		t.Fatalf("expected truncation marker in %q", cell)
	}
}
