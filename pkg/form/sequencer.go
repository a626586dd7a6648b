package form

import "sync/atomic"

// Sequencer stamps updates with increasing sequence numbers. Producers share
// one Sequencer per stream; the first number issued is 1.
type Sequencer struct {
	last atomic.Uint64
}

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// Last returns the most recently issued number, 0 if none.
func (s *Sequencer) Last() uint64 {
	return s.last.Load()
}
