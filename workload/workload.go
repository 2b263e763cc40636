// Package workload holds the synthetic work a probe brackets with trigger
// edges: fixed-bound counting loops and a disposable scratch file.
//
// Loop bounds are fixed so the iteration count is reproducible. Wall-clock
// duration still depends on the CPU, clock governor and compiler, so compare
// captures only across identical builds on the same board.
package workload

// Counters are the final loop indices and accumulator of a nested loop.
type Counters struct {
	I, J, K int64
}

// divisor feeds the per-iteration division in NestedDiv.
const divisor = 123456723456

// Sink receives the division results of NestedDiv. Being package state, the
// stores cannot be eliminated.
var Sink int64

// Nested counts k up from zero through an outer×inner loop nest.
// The returned K is always outer*inner.
func Nested(outer, inner int64) Counters {
	var i, j, k int64
	for i = 0; i < outer; i++ {
		for j = 0; j < inner; j++ {
			k++
		}
	}
	return Counters{I: i, J: j, K: k}
}

// NestedDiv counts k up from seed through an outer×inner loop nest, doing a
// 64 bit division on every step.
func NestedDiv(outer, inner, seed int64) Counters {
	var i, j int64
	k := seed
	for i = 0; i < outer; i++ {
		for j = 0; j < inner; j++ {
			k++
			Sink = k / divisor
		}
	}
	return Counters{I: i, J: j, K: k}
}
