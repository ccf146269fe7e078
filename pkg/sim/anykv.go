package sim

// AnyKV is a string-keyed map of type-erased values shared by every
// process in a run, for ad-hoc cross-process observation (spec.md §4.12).
// The engine is single-threaded, so no locking is required: a step never
// yields mid-handler.
type AnyKV struct {
	values map[string]any
}

func newAnyKV() *AnyKV {
	return &AnyKV{values: make(map[string]any)}
}

// Get returns the value stored at key, downcast to T. It panics with a type
// error if the key is missing or the stored value's runtime type does not
// match T — a fatal diagnostic in the same unrecoverable family as a
// lookup error or context-missing call (spec.md §7).
func anyKVGet[T any](kv *AnyKV, key string) T {
	raw, ok := kv.values[key]
	if !ok {
		panic(typeError("anykv: missing key %q", key))
	}
	v, ok := raw.(T)
	if !ok {
		panic(typeError("anykv: key %q does not hold the requested type", key))
	}
	return v
}

// Set overwrites the value stored at key.
func (kv *AnyKV) set(key string, value any) {
	kv.values[key] = value
}

// Modify applies f to the in-place value at key, which must already exist
// with type T, and stores the result. Mutation is atomic with respect to
// the current step because the engine never preempts a handler.
func anyKVModify[T any](kv *AnyKV, key string, f func(T) T) {
	cur := anyKVGet[T](kv, key)
	kv.values[key] = f(cur)
}
