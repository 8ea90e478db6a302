package sinew

import "sync"

// task splits data in contiguous chunks, one goroutine per chunk.
// fn receives the index of the element in data.
func task[T any](workersCount int, data []T, fn func(index int, data T)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	workersCount = min(max(workersCount, 1), dataSize)
	if workersCount == 0 {
		return
	}
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i, data[i])
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}
