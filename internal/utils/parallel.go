package utils

import "sync"

// ParallelMap 使用最多 workers 个协程并发执行 fn，结果顺序与输入一致。
// workers <= 0 时按 1 处理；单个元素直接在当前协程执行。
func ParallelMap[T any, R any](input []T, workers int, fn func(T) R) []R {
	result := make([]R, len(input))
	if len(input) == 0 {
		return result
	}
	if len(input) == 1 {
		result[0] = fn(input[0])
		return result
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(input) {
		workers = len(input)
	}

	indexes := make(chan int, len(input))
	for i := range input {
		indexes <- i
	}
	close(indexes)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				result[i] = fn(input[i])
			}
		}()
	}
	wg.Wait()
	return result
}
