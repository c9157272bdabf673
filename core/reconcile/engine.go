package reconcile

import (
	"time"

	"catalog-sync/core/platform"
)

// Detect compares a source and a destination collection and returns the
// differences needed to bring the destination in line with the source.
//
// Differences follow source iteration order. Destination duplicates resolve to
// the last one seen and raise a warning; destination-only entities are never
// reported, since deletions are not diff-driven.
func Detect(source, destination []platform.Entity, opts Options) Report {
	key := opts.Key
	if key == nil {
		key = DefaultKey(opts.Kind)
	}
	cmp := opts.Comparator
	if cmp == nil {
		cmp = ComparatorFor(opts.Kind)
	}

	report := Report{
		Kind:                opts.Kind,
		SourcePlatform:      opts.Source,
		DestinationPlatform: opts.Destination,
		Differences:         []Difference{},
		Warnings:            []Warning{},
		GeneratedAt:         time.Now().UTC(),
	}
	report.Summary.SourceCount = len(source)
	report.Summary.DestinationCount = len(destination)

	index := buildIndex(destination, key, opts.Destination, &report)

	seen := make(map[string]struct{}, len(source))
	for _, src := range source {
		k := key(src)
		if k == "" {
			report.warn(WarningBlankKey, k, opts.Source, src.ID)
			continue
		}
		if _, dup := seen[k]; dup {
			report.warn(WarningDuplicateSource, k, opts.Source, src.ID)
			continue
		}
		seen[k] = struct{}{}

		dst, exists := index[k]
		if !exists {
			report.Differences = append(report.Differences, newDifference(k, src, opts, "", []string{AllFields}))
			report.Summary.Creations++
			continue
		}

		changed := cmp.Compare(src, dst)
		if len(changed) == 0 {
			report.Summary.InSync++
			continue
		}
		report.Differences = append(report.Differences, newDifference(k, src, opts, dst.ID, changed))
		report.Summary.Updates++
	}

	report.Summary.Warnings = len(report.Warnings)
	return report
}

// buildIndex maps matching key to destination entity; the last duplicate wins.
func buildIndex(destination []platform.Entity, key KeyFunc, p platform.Platform, report *Report) map[string]platform.Entity {
	index := make(map[string]platform.Entity, len(destination))
	for _, dst := range destination {
		k := key(dst)
		if k == "" {
			report.warn(WarningBlankKey, k, p, dst.ID)
			continue
		}
		if _, dup := index[k]; dup {
			report.warn(WarningDuplicateDestination, k, p, dst.ID)
		}
		index[k] = dst
	}
	return index
}

func newDifference(key string, src platform.Entity, opts Options, destinationID string, changed []string) Difference {
	return Difference{
		MatchingKey:         key,
		Kind:                opts.Kind,
		SourcePlatform:      opts.Source,
		DestinationPlatform: opts.Destination,
		FieldsChanged:       changed,
		DestinationID:       destinationID,
		Title:               src.Title(),
		Handle:              src.Handle(),
		Source:              src,
	}
}

func (r *Report) warn(t WarningType, key string, p platform.Platform, id string) {
	r.Warnings = append(r.Warnings, Warning{Type: t, Key: key, Platform: p, EntityID: id})
}
