package stats

import (
	"context"
	"sync"
)

// task is one independent probe in the snapshot battery.
type task struct {
	name string
	run  func(ctx context.Context) error
}

// settleAll runs every task concurrently and waits for all of them,
// capturing each outcome independently. The returned slice is aligned
// with the input: results[i] is the error from tasks[i], nil on
// success. No task failure stops any other task.
func settleAll(ctx context.Context, tasks []task) []error {
	results := make([]error, len(tasks))

	var wg sync.WaitGroup
	for i := range tasks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tasks[i].run(ctx)
		}(i)
	}
	wg.Wait()

	return results
}
