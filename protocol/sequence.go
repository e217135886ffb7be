package protocol

import (
	"fmt"
	"sync/atomic"
	"time"
)

// seqCounterSpan is the counter space per second window. Sequences are the
// compact timestamp of the window followed by a five-digit counter.
const seqCounterSpan = 100000

// SequenceGenerator issues time-seeded sequence identifiers that are unique
// and monotonically increasing within a process, collision-free under
// concurrent callers. The generated form is "yyyyMMddHHmmssNNNNN".
//
// The generator never moves backwards: if the wall clock steps back, new
// sequences keep counting within the last observed second window.
type SequenceGenerator struct {
	// state packs second*seqCounterSpan + counter into one atomic word.
	state atomic.Int64
}

// NewSequenceGenerator creates a generator seeded from the current time.
func NewSequenceGenerator() *SequenceGenerator {
	g := &SequenceGenerator{}
	g.state.Store(time.Now().Unix() * seqCounterSpan)
	return g
}

// Next returns the next sequence identifier.
func (g *SequenceGenerator) Next() string {
	for {
		now := time.Now().Unix()
		old := g.state.Load()
		next := old + 1
		if windowStart := now * seqCounterSpan; windowStart > old {
			next = windowStart
		}
		if g.state.CompareAndSwap(old, next) {
			sec := next / seqCounterSpan
			n := next % seqCounterSpan
			return fmt.Sprintf("%s%05d", time.Unix(sec, 0).Format(LayoutCompact), n)
		}
	}
}
