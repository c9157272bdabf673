// Package reconcile detects catalog differences between a source-of-truth
// platform and a destination platform.
//
// Both sides are drained through platform.Client, indexed by a per-kind
// matching key and compared field by field. The output is a Report whose
// Differences follow source order:
//
//   - a source entity with no destination counterpart becomes a creation
//     (FieldsChanged is only "*")
//   - a source entity whose tracked fields differ becomes an update listing
//     the changed canonical field names
//   - entities in sync produce nothing
//
// Destination-only entities are never reported. Data-quality problems such as
// duplicate or blank keys are returned as warnings instead of failing the run.
//
// # Caching
//
// SnapshotCache keeps fetched snapshots per platform pair and kind for a TTL,
// with stampede protection, so repeated diff requests do not re-page both
// platforms. Invalidate after writing to a destination.
//
//	cache := reconcile.NewSnapshotCache()
//	report, err := reconcile.Reconcile(ctx, &reconcile.Spec{
//	    Kind:        platform.KindProduct,
//	    Source:      woo,
//	    Destination: shop,
//	    CacheTTL:    time.Minute,
//	}, cache)
package reconcile
