package router

import "dawengine/internal/port"

// SendPayload implements the CHANNEL_SEND node variant: it copies and
// attenuates a source port into the send's own output port, which then
// feeds the graph's normal port-to-port connections downstream.
type SendPayload struct {
	Src *port.Port
	Out *port.Port

	Gain    float64
	Enabled bool
}

func (s *SendPayload) Process(ti TimeInfo) error {
	if err := s.Out.ClearBuffer(); err != nil {
		return err
	}
	if !s.Enabled {
		return nil
	}
	return s.Out.SumSignalFrom(s.Src, s.Gain)
}
