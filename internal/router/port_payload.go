package router

import "dawengine/internal/port"

// InboundSignal pairs a source port with the connection feeding it into
// a destination input port.
type InboundSignal struct {
	Src  *port.Port
	Conn *port.Connection
}

// PortPayload implements the PORT node variant: it sums enabled
// inbound connections into its buffer for inputs; output ports are
// written directly by their owning node and use PortPayload only to
// take part in the dependency graph and latency bookkeeping.
type PortPayload struct {
	Port    *port.Port
	Inbound []InboundSignal
	IsInput bool
}

func (p *PortPayload) Process(ti TimeInfo) error {
	if !p.IsInput {
		return nil
	}
	if err := p.Port.ClearBuffer(); err != nil {
		return err
	}
	for _, sig := range p.Inbound {
		// A disabled connection contributes no signal but still
		// participates in the graph for latency bookkeeping (it was
		// already wired as an edge at build time).
		if !sig.Conn.Enabled {
			continue
		}
		if err := p.Port.SumSignalFrom(sig.Src, sig.Conn.Multiplier); err != nil {
			return err
		}
	}
	return nil
}
