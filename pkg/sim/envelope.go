package sim

// Payload is the contract every user message type must satisfy: a declared
// virtual size in bytes, queried exactly once at emission time (spec.md
// §3, §6).
type Payload interface {
	VirtualSize() int
}

// MessageEnvelope is a type-erased, single-consumer carrier for a user
// payload. It is handed to on_message exactly once; after that the engine
// never observes it again (spec.md §4.3).
type MessageEnvelope struct {
	payload     Payload
	virtualSize int
}

// newEnvelope wraps payload, sampling its declared size immediately — the
// one and only point at which virtual_size is queried (spec.md invariant:
// "every emission's virtual_size is sampled exactly once at the moment of
// scheduling").
func newEnvelope(payload Payload) *MessageEnvelope {
	return &MessageEnvelope{payload: payload, virtualSize: payload.VirtualSize()}
}

// VirtualSize returns the size sampled at emission time.
func (e *MessageEnvelope) VirtualSize() int {
	return e.virtualSize
}

// TryAs attempts a safe typed downcast of the envelope's payload. It
// returns the zero value and false if the envelope's runtime type does not
// match T, matching spec.md's round-trip downcast property.
func TryAs[T Payload](e *MessageEnvelope) (T, bool) {
	v, ok := e.payload.(T)
	return v, ok
}
