package factory

// combinationCount returns the product of sizes, saturating at limit+1.
func combinationCount(sizes []int, limit int) int {
	count := 1
	for _, n := range sizes {
		if n == 0 {
			return 0
		}
		if count > limit/n {
			return limit + 1
		}
		count *= n
	}
	return count
}

// eachCombination calls fn with one index per axis for every element of the
// Cartesian product, in lexicographic order with the last axis cycling
// fastest. The choice slice is reused between calls.
func eachCombination(sizes []int, fn func(choice []int) error) error {
	for _, n := range sizes {
		if n == 0 {
			return nil
		}
	}

	choice := make([]int, len(sizes))
	for {
		if err := fn(choice); err != nil {
			return err
		}
		i := len(choice) - 1
		for ; i >= 0; i-- {
			choice[i]++
			if choice[i] < sizes[i] {
				break
			}
			choice[i] = 0
		}
		if i < 0 {
			return nil
		}
	}
}
