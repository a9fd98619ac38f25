package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sentinelsec/sentinel/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return HumanDate(t)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t)
	}
}

// KindBadge returns a capitalized, purple-styled asset kind label.
func KindBadge(k domain.AssetKind) string {
	s := string(k)
	if s == "" {
		return StyleDim.Render("--")
	}
	label := strings.ToUpper(s[:1]) + s[1:]
	return StylePurple.Render(label)
}

// VersionBadge returns a dimmed optimistic-lock version label such as "v3".
func VersionBadge(version int) string {
	return StyleDim.Render(fmt.Sprintf("v%d", version))
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Breadcrumb joins ancestor names root-first with a separator, ending at the
// node itself.
func Breadcrumb(names []string) string {
	if len(names) == 0 {
		return ""
	}
	sep := StyleDim.Render(" › ")
	parts := make([]string, len(names))
	for i, n := range names {
		if i == len(names)-1 {
			parts[i] = Bold(n)
		} else {
			parts[i] = StyleFg.Render(n)
		}
	}
	return strings.Join(parts, sep)
}
