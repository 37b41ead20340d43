package router

import "dawengine/internal/port"

// ModulatorMacroPayload implements the MODULATOR_MACRO node variant:
// it applies a single macro control value onto one or more CV outputs.
type ModulatorMacroPayload struct {
	Value   *port.Port // CONTROL port holding the macro's current value
	Outputs []*port.Port
}

func (m *ModulatorMacroPayload) Process(ti TimeInfo) error {
	v := float32(m.Value.ControlValue())
	for _, out := range m.Outputs {
		if err := out.ClearBuffer(); err != nil {
			return err
		}
		buf := out.AudioBuffer()
		for i := range buf {
			buf[i] = v
		}
	}
	return nil
}
