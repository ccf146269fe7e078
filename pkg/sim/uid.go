package sim

// uidCounter is the monotonic counter backing global_unique_id(), shared
// by every process in a run (spec.md §4.12).
type uidCounter struct {
	next uint64
}

// allocate advances the counter and returns its new value (the first call
// returns 1).
func (c *uidCounter) allocate() uint64 {
	c.next++
	return c.next
}
