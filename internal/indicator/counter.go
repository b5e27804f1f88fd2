package indicator

// RollingCounter keeps the last two absolute samples of a cumulative counter.
// Deltas are only meaningful once two samples have been pushed.
type RollingCounter[T any] struct {
	samples [2]T
	n       int
}

// Push records a new sample, dropping the oldest.
func (c *RollingCounter[T]) Push(v T) {
	c.samples[0] = c.samples[1]
	c.samples[1] = v
	if c.n < 2 {
		c.n++
	}
}

// Pair returns the previous and current samples. ok is false until two
// samples exist.
func (c *RollingCounter[T]) Pair() (prev, cur T, ok bool) {
	return c.samples[0], c.samples[1], c.n >= 2
}

// Len returns how many samples are held (0, 1 or 2).
func (c *RollingCounter[T]) Len() int {
	return c.n
}
