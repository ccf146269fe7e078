// Package examples bundles small ProcessBehavior implementations used as
// fixtures by pkg/sim's own tests and as worked examples for callers
// wiring up their first scenario.
package examples

import "github.com/jihwankim/matrixsim/pkg/sim"

// Ping is a fixed-size payload carrying a round counter.
type Ping struct {
	Round int
}

// VirtualSize implements sim.Payload. Pings are modeled as a flat 64-byte
// wire message regardless of round number.
func (Ping) VirtualSize() int { return 64 }

// Pong mirrors Ping back to its sender.
type Pong struct {
	Round int
}

// VirtualSize implements sim.Payload.
func (Pong) VirtualSize() int { return 64 }

// Pinger sends Rounds pings to Peer, one at a time, waiting for each Pong
// before sending the next, and stops after the last Pong arrives.
type Pinger struct {
	Peer   sim.ProcessId
	Rounds int
}

// Start implements sim.ProcessBehavior.
func (p *Pinger) Start() {
	sim.SendTo(p.Peer, Ping{Round: 0})
}

// OnMessage implements sim.ProcessBehavior.
func (p *Pinger) OnMessage(_ sim.ProcessId, env *sim.MessageEnvelope) {
	pong, ok := sim.TryAs[Pong](env)
	if !ok {
		return
	}
	next := pong.Round + 1
	if next >= p.Rounds {
		return
	}
	sim.SendTo(p.Peer, Ping{Round: next})
}

// OnTimer implements sim.ProcessBehavior. Pinger never schedules timers.
func (p *Pinger) OnTimer(sim.TimerId) {}

// Ponger replies to every Ping it receives with a matching Pong.
type Ponger struct{}

// Start implements sim.ProcessBehavior.
func (*Ponger) Start() {}

// OnMessage implements sim.ProcessBehavior.
func (*Ponger) OnMessage(from sim.ProcessId, env *sim.MessageEnvelope) {
	ping, ok := sim.TryAs[Ping](env)
	if !ok {
		return
	}
	sim.SendTo(from, Pong{Round: ping.Round})
}

// OnTimer implements sim.ProcessBehavior. Ponger never schedules timers.
func (*Ponger) OnTimer(sim.TimerId) {}
