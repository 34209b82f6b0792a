package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForEachVisitsEveryIndexOnce(t *testing.T) {
	for _, limit := range []int{-1, 0, 1, 3, 64} {
		counts := make([]int32, 100)
		ForEach(len(counts), limit, func(i int) {
			atomic.AddInt32(&counts[i], 1)
		})
		for i, c := range counts {
			assert.Equal(t, int32(1), c, "limit %d index %d", limit, i)
		}
	}
}

func TestForEachEmpty(t *testing.T) {
	called := false
	ForEach(0, 4, func(int) { called = true })
	assert.False(t, called)
}
