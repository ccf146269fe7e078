package sim

// BandwidthDescription configures a process's outbound link.
type BandwidthDescription struct {
	unbounded  bool
	bytesPerJ  int64 // bytes per jiffy, meaningful only when !unbounded
}

// Unbounded describes an outbound link with no rate limit: every emission
// has zero transmission duration.
func Unbounded() BandwidthDescription {
	return BandwidthDescription{unbounded: true}
}

// Bounded describes an outbound link limited to bytesPerJiffy bytes per
// jiffy.
func Bounded(bytesPerJiffy int64) BandwidthDescription {
	return BandwidthDescription{bytesPerJ: bytesPerJiffy}
}

func (b BandwidthDescription) validate() error {
	if !b.unbounded && b.bytesPerJ <= 0 {
		return configError("bounded bandwidth must be positive, got %d", b.bytesPerJ)
	}
	return nil
}

// BandwidthGate models one process's serial outbound link: a single
// bytes-per-jiffy credit shared by every emission from that process, in
// emission order (spec.md §4.5). There is no reordering within a single
// source's outbound stream.
type BandwidthGate struct {
	desc    BandwidthDescription
	readyAt Jiffies
}

func newBandwidthGate(desc BandwidthDescription) *BandwidthGate {
	return &BandwidthGate{desc: desc}
}

// emit reserves the gate's link for a message of sizeBytes departing no
// earlier than t, and returns the actual departure time and the
// transmission duration. It mutates readyAt so the next emission is
// serialized strictly after this one. budget clamps readyAt the same way
// it clamps every other Jiffies sum (spec.md §3).
func (g *BandwidthGate) emit(t Jiffies, sizeBytes int, budget Jiffies) (departure, duration Jiffies) {
	departure = t
	if g.readyAt > departure {
		departure = g.readyAt
	}
	if g.desc.unbounded {
		duration = 0
	} else {
		duration = ceilDiv(Jiffies(sizeBytes), Jiffies(g.desc.bytesPerJ))
	}
	g.readyAt = saturatingAdd(departure, duration, budget)
	return departure, duration
}

func ceilDiv(n, d Jiffies) Jiffies {
	if d == 0 {
		panic(invariantViolation("bandwidth gate divide by zero rate"))
	}
	return (n + d - 1) / d
}
