package odometry

import "sync"

// entry pairs a sample with its production timestamp. The publish loop needs
// the timestamp even when the emit fails, to keep the producer's staleness
// check ordered.
type entry struct {
	timestamp float64
	sample    Sample
}

// sampleQueue is the FIFO shared between the producer (push, clear) and the
// publish loop (pop). One mutex covers every access; nothing blocking runs
// under it.
type sampleQueue struct {
	mu       sync.Mutex
	entries  []entry
	maxDepth int // 0 = unbounded
}

func newSampleQueue(maxDepth int) *sampleQueue {
	return &sampleQueue{maxDepth: maxDepth}
}

// push appends an entry. When the queue is at capacity the oldest entry is
// dropped first: the sensor favors freshness over completeness.
func (q *sampleQueue) push(e entry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.maxDepth > 0 && len(q.entries) >= q.maxDepth {
		q.entries = q.entries[1:]
	}
	q.entries = append(q.entries, e)
}

// pop removes and returns the oldest entry, if any.
func (q *sampleQueue) pop() (entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return entry{}, false
	}
	e := q.entries[0]
	q.entries = q.entries[1:]
	return e, true
}

// clear drops all pending entries.
func (q *sampleQueue) clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
}

func (q *sampleQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
