package domain

import (
	"fmt"
	"strings"
	"time"
)

// Asset is a tracked security asset. WorkgroupID is nil while the asset is
// unassigned (e.g. after its owning root workgroup was deleted).
type Asset struct {
	ID          string
	WorkgroupID *string
	Name        string
	Kind        AssetKind
	Criticality Criticality
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateFields checks name, kind and criticality values.
func (a *Asset) ValidateFields() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("asset name is required")
	}
	if a.Kind != "" && !ValidAssetKinds[string(a.Kind)] {
		return fmt.Errorf("unknown asset kind %q", a.Kind)
	}
	if a.Criticality != "" && !ValidCriticalities[string(a.Criticality)] {
		return fmt.Errorf("unknown criticality %q", a.Criticality)
	}
	return nil
}
