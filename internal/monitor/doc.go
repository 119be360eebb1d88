// Package monitor implements the cache-aware refresh policy for flood data.
//
// On activation ([Monitor.Run]) the snapshot cache is consulted first. A
// snapshot younger than the TTL is used as is and no request is made;
// otherwise the feed is fetched once before the refresh ticker starts. The
// ticker period equals the TTL and the ticker is stopped when the Run
// context is cancelled, so no fetch starts after teardown. A fetch already
// in flight is bound to the same context and its result is discarded if it
// returns after cancellation.
//
// Every failure, whether transport, HTTP status or decoding, collapses to
// [LoadErrorMessage]. There is no retry: the next tick or the next
// activation is the recovery path.
package monitor
