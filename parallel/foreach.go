// Package parallel runs independent loop bodies on a bounded number of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// ForEach calls body(i) for every i in [0, length) using at most limit
// goroutines. A limit of zero or less means one goroutine per logical CPU.
// Bodies must only write state owned by their own index.
func ForEach(length, limit int, body func(i int)) {
	if length <= 0 {
		return
	}
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	if limit > length {
		limit = length
	}
	if limit == 1 {
		for i := 0; i < length; i++ {
			body(i)
		}
		return
	}

	var next int64 = -1
	var wg sync.WaitGroup
	wg.Add(limit)
	for w := 0; w < limit; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&next, 1))
				if i >= length {
					return
				}
				body(i)
			}
		}()
	}
	wg.Wait()
}
