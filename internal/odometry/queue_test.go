package odometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleQueue(t *testing.T) {
	t.Parallel()

	t.Run("pops in FIFO order", func(t *testing.T) {
		t.Parallel()
		q := newSampleQueue(0)
		for i := uint64(0); i < 4; i++ {
			q.push(entry{timestamp: float64(i), sample: Sample{Sequence: i}})
		}
		for i := uint64(0); i < 4; i++ {
			e, ok := q.pop()
			require.True(t, ok)
			assert.Equal(t, i, e.sample.Sequence)
		}
		_, ok := q.pop()
		assert.False(t, ok)
	})

	t.Run("clear drops the whole backlog", func(t *testing.T) {
		t.Parallel()
		q := newSampleQueue(0)
		q.push(entry{})
		q.push(entry{})
		q.clear()
		assert.Equal(t, 0, q.len())
		_, ok := q.pop()
		assert.False(t, ok)
	})

	t.Run("drops the oldest entry at capacity", func(t *testing.T) {
		t.Parallel()
		q := newSampleQueue(3)
		for i := uint64(0); i < 5; i++ {
			q.push(entry{sample: Sample{Sequence: i}})
		}
		require.Equal(t, 3, q.len())
		for _, want := range []uint64{2, 3, 4} {
			e, ok := q.pop()
			require.True(t, ok)
			assert.Equal(t, want, e.sample.Sequence)
		}
	})

	t.Run("zero depth is unbounded", func(t *testing.T) {
		t.Parallel()
		q := newSampleQueue(0)
		for i := 0; i < 1000; i++ {
			q.push(entry{})
		}
		assert.Equal(t, 1000, q.len())
	})
}
