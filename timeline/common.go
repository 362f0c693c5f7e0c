// Package timeline implements one evaluator per animation channel kind
// (spec.md §4.3): a per-frame pass over a clip's timelines that writes
// weighted deltas into a cache.Cache. Every continuous-channel evaluator
// follows the same four-step protocol described in spec.md §4.3 ("Common
// protocol for continuous channels"); the discrete channels (attachment,
// draw order) and the event timeline each get their own evaluate shape per
// spec.md's guidance to model this as "a sum over timeline kinds... the
// only shared base is a cached lastKey hint".
package timeline

// bracket locates the pair of indices into times that bracket t, using
// *lastKey as a hint and resetting the scan when t has moved backwards
// since the previous call (spec.md §4.3 step 2). When t is at or beyond the
// final time, both returned indices collapse to the last entry.
func bracket(times []float32, t float32, lastKey *int) (k0, k1 int) {
	n := len(times)
	if n == 0 {
		return 0, 0
	}
	i := *lastKey
	if i < 0 || i >= n {
		i = 0
	}
	if i > 0 && times[i] > t {
		i = 0
	}
	for i < n-1 && times[i+1] <= t {
		i++
	}
	*lastKey = i
	if i >= n-1 {
		return n - 1, n - 1
	}
	return i, i + 1
}
