// Package memogo provides per-object, disk-persisted memoization.
//
// A Cache owns the memoized results of one logical object. Results are keyed
// by a fingerprint of the operation name and its arguments, stored with a
// timestamp, persisted as indented JSON to a local file (L1), and optionally
// mirrored to a remote key-value store (L2). Wrapped operations are computed
// once per distinct argument set and reused across process restarts while
// within their TTL.
//
// # Quick Start
//
//	ctx := context.Background()
//	c, err := memogo.New(ctx, "weather-berlin", memogo.WithTTL(memogo.Days(1)))
//	if err != nil { ... }
//	defer c.Close()
//
//	forecast := memogo.NewFunc(c, "forecast", func(ctx context.Context, args ...any) (Forecast, error) {
//	    return fetchForecast(ctx, args[0].(string))
//	})
//
//	f, err := forecast.Call(ctx, "2026-08-30") // computed
//	f, err = forecast.Call(ctx, "2026-08-30")  // served from cache
//
// # Two Tiers
//
// The local file is always written. Attach a remote store to survive the loss
// of local state and to share snapshots between hosts:
//
//	store, _ := dynamodb.New(ctx, "memogo-cache")
//	c, _ := memogo.New(ctx, "weather-berlin", memogo.WithRemote(store))
//
// On construction the local file is loaded first; if it is missing, the
// remote document is fetched instead. Either way a successful load writes the
// snapshot back to the remote tier so both converge. Large remote payloads
// are gzip-compressed transparently; payloads that stay over the remote item
// limit even compressed are skipped with a warning while the local tier still
// saves.
//
// # Variable Snapshot
//
// Registered variables are persisted alongside the entry map and restored on
// construction while the snapshot is within TTL:
//
//	var visits int
//	c, _ := memogo.New(ctx, "crawler", memogo.WithVar("visits", &visits))
//
// # Failure Model
//
// Caching is purely an optimization. Serialization and I/O problems are
// logged and degrade to recomputation; they never produce a wrong result or
// reach the caller of a memoized operation. Errors returned by wrapped
// functions propagate unchanged and are never cached.
package memogo
