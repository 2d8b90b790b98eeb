package iterative

// Partition is a half-open range [Low, High) of logical element indices.
type Partition struct {
	Low  int
	High int
}

// Len returns the number of indices in the partition.
func (p Partition) Len() int {
	return p.High - p.Low
}

// Plan splits size logical elements into min(threads, size) contiguous
// partitions in index order. Sizes differ by at most one; the first
// size mod count partitions get the extra element. Plan returns nil when
// there is nothing to split.
func Plan(size, threads int) []Partition {
	if size <= 0 || threads <= 0 {
		return nil
	}

	count := min(threads, size)
	base, extra := size/count, size%count

	plan := make([]Partition, count)
	low := 0
	for i := range plan {
		n := base
		if i < extra {
			n++
		}
		plan[i] = Partition{Low: low, High: low + n}
		low += n
	}
	return plan
}

// Selected returns how many of n elements a stride visits: indices
// 0, stride, 2*stride and so on below n.
func Selected(n, stride int) int {
	if n <= 0 {
		return 0
	}
	return (n-1)/stride + 1
}
