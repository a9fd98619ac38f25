package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Name   string
	ID     string
	Level  int
	IsLast bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders a list of TreeItems, depth-first order expected, as an
// indented tree using box-drawing characters for connectors. IDs are shown
// as dimmed 8-char badges and detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				prefix += treePipe
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Name
		if item.Level == 0 {
			title = Bold(title)
		}
		if item.ID != "" {
			title += "  " + TruncID(item.ID)
		}

		content := prefix + title
		lines[idx].content = content

		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}
