package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MaxNameLen is the maximum workgroup name length in runes.
	MaxNameLen = 255
	// MaxDescriptionLen is the maximum description length in runes.
	MaxDescriptionLen = 1000
)

// Workgroup is one organizational unit in the self-referential hierarchy.
// ParentID is nil for root-level groups. Version is the optimistic-locking
// counter; the store increments it on every successful write and rejects
// writes whose expected version is stale.
type Workgroup struct {
	ID          string
	ParentID    *string
	Name        string
	Description string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot reports whether the workgroup sits at the top level.
func (w *Workgroup) IsRoot() bool {
	return w.ParentID == nil
}

// ValidateFields checks the name and description constraints:
// name 1-255 runes after trimming, description at most 1000 runes.
func (w *Workgroup) ValidateFields() error {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		return fmt.Errorf("workgroup name is required")
	}
	if n := len([]rune(name)); n > MaxNameLen {
		return fmt.Errorf("workgroup name is %d characters, maximum is %d", n, MaxNameLen)
	}
	if n := len([]rune(w.Description)); n > MaxDescriptionLen {
		return fmt.Errorf("workgroup description is %d characters, maximum is %d", n, MaxDescriptionLen)
	}
	return nil
}

// SameName compares two workgroup names the way the sibling-uniqueness
// constraint does: case-insensitively, ignoring surrounding whitespace.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
