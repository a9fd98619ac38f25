package domain

type AssetKind string

const (
	AssetHost        AssetKind = "host"
	AssetService     AssetKind = "service"
	AssetApplication AssetKind = "application"
	AssetDatabase    AssetKind = "database"
	AssetNetwork     AssetKind = "network"
)

// ValidAssetKinds is the canonical set of accepted asset kind strings.
var ValidAssetKinds = map[string]bool{
	"host": true, "service": true, "application": true,
	"database": true, "network": true,
}

type Criticality string

const (
	CriticalityLow      Criticality = "low"
	CriticalityMedium   Criticality = "medium"
	CriticalityHigh     Criticality = "high"
	CriticalityCritical Criticality = "critical"
)

// ValidCriticalities is the canonical set of accepted criticality strings.
var ValidCriticalities = map[string]bool{
	"low": true, "medium": true, "high": true, "critical": true,
}
