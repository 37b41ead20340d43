package router

import "dawengine/internal/port"

// SumPayload implements the SAMPLE_PROCESSOR and MONITOR_FADER node
// variants: plain summing points with no gain staging of their own,
// used for metronome/audition/monitor chains.
type SumPayload struct {
	Out     *port.Port
	Sources []*port.Port
}

func (s *SumPayload) Process(ti TimeInfo) error {
	if err := s.Out.ClearBuffer(); err != nil {
		return err
	}
	for _, src := range s.Sources {
		if err := s.Out.SumSignalFrom(src, 1.0); err != nil {
			return err
		}
	}
	return nil
}
