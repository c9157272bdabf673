package reconcile

import (
	"time"

	"catalog-sync/core/platform"
)

// AllFields is the single FieldsChanged entry of a creation difference.
const AllFields = "*"

// Difference describes one source entity that must be written to the destination.
// It references exactly one source entity and at most one destination entity.
type Difference struct {
	// MatchingKey correlates the source entity with its destination counterpart.
	MatchingKey string `json:"matchingKey" validate:"required"`

	// Kind is the entity kind.
	Kind platform.Kind `json:"kind"`

	// SourcePlatform is the source of truth.
	SourcePlatform platform.Platform `json:"sourcePlatform"`

	// DestinationPlatform receives the write.
	DestinationPlatform platform.Platform `json:"destinationPlatform"`

	// FieldsChanged lists the differing canonical fields, or only AllFields for a creation.
	FieldsChanged []string `json:"fieldsChanged" validate:"required,min=1"`

	// DestinationID is the destination entity to update. Empty for a creation.
	DestinationID string `json:"destinationId,omitempty"`

	// Title is the display title of the source entity.
	Title string `json:"title"`

	// Handle is the display slug of the source entity.
	Handle string `json:"handle"`

	// Source is the source snapshot the write is built from.
	Source platform.Entity `json:"source"`
}

// IsCreation reports whether the entity does not exist on the destination yet.
// Only FieldsChanged decides; an update missing its DestinationID is not a creation.
func (d Difference) IsCreation() bool {
	return len(d.FieldsChanged) == 1 && d.FieldsChanged[0] == AllFields
}

// WarningType classifies a data-quality warning raised while detecting differences.
type WarningType string

const (
	// WarningDuplicateDestination means several destination entities share a key; the last one wins.
	WarningDuplicateDestination WarningType = "duplicate_destination_key"
	// WarningDuplicateSource means several source entities share a key; only the first is synced.
	WarningDuplicateSource WarningType = "duplicate_source_key"
	// WarningBlankKey means an entity has no matching key and cannot be correlated.
	WarningBlankKey WarningType = "blank_key"
)

// Warning is a non-fatal data-quality finding.
type Warning struct {
	Type     WarningType       `json:"type"`
	Key      string            `json:"key"`
	Platform platform.Platform `json:"platform"`
	EntityID string            `json:"entityId"`
}

// Summary provides aggregate counts for a detection run.
type Summary struct {
	SourceCount      int `json:"sourceCount"`
	DestinationCount int `json:"destinationCount"`
	Creations        int `json:"creations"`
	Updates          int `json:"updates"`
	InSync           int `json:"inSync"`
	Warnings         int `json:"warnings"`
}

// Report is the outcome of a detection run.
type Report struct {
	Kind                platform.Kind     `json:"kind"`
	SourcePlatform      platform.Platform `json:"sourcePlatform"`
	DestinationPlatform platform.Platform `json:"destinationPlatform"`
	Differences         []Difference      `json:"differences"`
	Warnings            []Warning         `json:"warnings"`
	Summary             Summary           `json:"summary"`
	GeneratedAt         time.Time         `json:"generatedAt"`
}

// Options configure Detect.
type Options struct {
	// Kind is the entity kind of both collections.
	Kind platform.Kind
	// Source and Destination label the platforms on emitted differences.
	Source      platform.Platform
	Destination platform.Platform
	// Key extracts the matching key. Defaults to DefaultKey(Kind).
	Key KeyFunc
	// Comparator lists changed fields. Defaults to ComparatorFor(Kind).
	Comparator Comparator
}
