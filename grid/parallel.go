package grid

import (
	"sync"

	"github.com/Dttination/EinsteinFieldEquationSolution/utils"
)

// ForEachParallel applies fn to every cell of the layout, partitioned over a
// fixed pool of goroutines and joined before returning. fn receives the
// linear cell index and its 3-D coordinates. fn must write only to its own
// cell in output grids; reads of input grids are unrestricted. A panic in fn
// is re-raised in the caller once every worker has returned.
func ForEachParallel(l Layout, pm *utils.PartitionMap, fn func(idx int, i [3]int)) {
	var (
		wg    = sync.WaitGroup{}
		mu    sync.Mutex
		fault interface{}
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					if fault == nil {
						fault = r
					}
					mu.Unlock()
				}
			}()
			min, max := pm.GetBucketRange(np)
			for idx := min; idx < max; idx++ {
				fn(idx, l.Coord(idx))
			}
		}(np)
	}
	wg.Wait()
	if fault != nil {
		panic(fault)
	}
}
