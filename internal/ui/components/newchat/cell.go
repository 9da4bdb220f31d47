package newchat

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/meszmate/newchat/internal/contacts"
	"github.com/meszmate/newchat/internal/ui/theme"
)

// CreateGroupTitle is the label of the synthetic first row
const CreateGroupTitle = "Create Group"

// avatar width including brackets and the trailing space
const avatarWidth = 5

// initials returns up to two uppercase initials for name
func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// renderCell renders a single row, padded or truncated to width
func renderCell(styles *theme.Styles, row contacts.Row, width int, selected bool) string {
	var avatar, title string
	var avatarStyle lipgloss.Style

	switch row.Kind {
	case contacts.RowCreateGroup:
		avatar = "+"
		title = CreateGroupTitle
		avatarStyle = styles.PickerAction
	default:
		title = row.Contact.DisplayName()
		avatar = initials(title)
		avatarStyle = styles.PickerAvatar
	}

	// Truncate if needed
	maxWidth := width - avatarWidth - 1
	if maxWidth < 1 {
		maxWidth = 1
	}
	title = truncate.StringWithTail(title, uint(maxWidth), "…")

	style := styles.PickerContact
	if selected {
		style = styles.PickerSelected
		avatarStyle = avatarStyle.Inherit(styles.PickerSelected)
	}

	box := avatarStyle.Render(fmtAvatar(avatar))
	content := " " + box + style.Render(title)

	// Pad to width
	if w := lipgloss.Width(content); w < width {
		content += style.Render(strings.Repeat(" ", width-w))
	}
	return content
}

// fmtAvatar centers one or two initials in a fixed-width bracket
func fmtAvatar(s string) string {
	if len([]rune(s)) == 1 {
		return "[" + s + " ] "
	}
	return "[" + s + "] "
}

// renderSeparator renders the line drawn between rows
func renderSeparator(styles *theme.Styles, width int) string {
	if width < 3 {
		return ""
	}
	return " " + styles.PickerSeparator.Render(strings.Repeat("─", width-2))
}
