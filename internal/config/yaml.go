// SPDX-License-Identifier: MIT
//
// Package config loads and validates the engine's runtime
// configuration: audio device/backend selection, mixing defaults, and
// metering/broadcast options. Every field that maps to a closed set
// (backend, pan law, curve algorithm) is validated into its Go enum at
// load time, so invalid configuration never reaches the realtime path.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"dawengine/internal/audio"
	applog "dawengine/internal/log"
	"dawengine/internal/router"
	"dawengine/pkg/bitint"
)

// Backend is the closed set of audio I/O backends the engine can open.
type Backend int

const (
	BackendPortAudio Backend = iota
	BackendOffline           // no hardware I/O; used for bounce/tests
)

func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(s) {
	case "", "portaudio":
		return BackendPortAudio, nil
	case "offline":
		return BackendOffline, nil
	default:
		return 0, fmt.Errorf("config: unknown backend %q", s)
	}
}

func (b Backend) String() string {
	switch b {
	case BackendPortAudio:
		return "portaudio"
	case BackendOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// CurveAlgorithm is the closed set of gain-knob-to-linear-gain mapping
// curves a fader control surface may use.
type CurveAlgorithm int

const (
	CurveLinear CurveAlgorithm = iota
	CurveExponential
	CurveLogarithmic
)

func ParseCurveAlgorithm(s string) (CurveAlgorithm, error) {
	switch strings.ToLower(s) {
	case "", "linear":
		return CurveLinear, nil
	case "exponential":
		return CurveExponential, nil
	case "logarithmic":
		return CurveLogarithmic, nil
	default:
		return 0, fmt.Errorf("config: unknown curve algorithm %q", s)
	}
}

func ParsePanLaw(s string) (router.PanLaw, error) {
	switch strings.ToLower(s) {
	case "", "0db":
		return router.PanLaw0dB, nil
	case "-3db":
		return router.PanLawMinus3dB, nil
	case "-6db":
		return router.PanLawMinus6dB, nil
	default:
		return 0, fmt.Errorf("config: unknown pan law %q", s)
	}
}

// DefaultDeviceID selects the host's default input or output device
// instead of a specific enumerated device index.
const DefaultDeviceID = audio.DefaultDeviceID

// Config is the root of the engine's runtime configuration.
type Config struct {
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`

	BackendName string `yaml:"backend"`
	Backend     Backend `yaml:"-"`

	Audio  AudioConfig  `yaml:"audio"`
	Mixing MixingConfig `yaml:"mixing"`
	Meter  MeterConfig  `yaml:"meter"`
}

type AudioConfig struct {
	OutputDevice int     `yaml:"output_device"`
	SampleRate   float64 `yaml:"sample_rate"`
	BufferSize   int     `yaml:"buffer_size"`
	Channels     int     `yaml:"channels"`

	// WorkerCount sizes the scheduler's worker pool; 0 selects
	// runtime.NumCPU() at engine construction time.
	WorkerCount int `yaml:"worker_count"`
}

type MixingConfig struct {
	PanLawName string `yaml:"pan_law"`
	PanLaw     router.PanLaw `yaml:"-"`

	CurveAlgorithmName string         `yaml:"curve_algorithm"`
	CurveAlgorithm     CurveAlgorithm `yaml:"-"`
}

type MeterConfig struct {
	FFTSize         int     `yaml:"fft_size"`
	BroadcastAddr   string  `yaml:"broadcast_addr"` // empty disables the websocket broadcaster
	GateEnabled     bool    `yaml:"gate_enabled"`
	GateThreshold   float64 `yaml:"gate_threshold"`
}

// LoadConfig reads and validates path, falling back to "config.yaml" in
// the working directory, and finally to built-in defaults if neither
// is present. Environment variables override whatever the file or
// defaults supplied, then the result is validated as a whole.
func LoadConfig(path string) (*Config, error) {
	cfg := Config{
		Debug:       false,
		LogLevel:    "info",
		BackendName: "portaudio",
		Audio: AudioConfig{
			OutputDevice: audio.DefaultDeviceID,
			SampleRate:   48000,
			BufferSize:   512,
			Channels:     2,
			WorkerCount:  0,
		},
		Mixing: MixingConfig{
			PanLawName:         "-3db",
			CurveAlgorithmName: "linear",
		},
		Meter: MeterConfig{
			FFTSize:       1024,
			BroadcastAddr: "",
			GateEnabled:   true,
			GateThreshold: 0.001,
		},
	}

	if path == "" {
		candidates := []string{"config.yaml"}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			cfg.applyEnvOverrides()
			return finalizeConfig(cfg)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return finalizeConfig(cfg)
}

// finalizeConfig resolves every string-typed enum field into its Go
// enum and validates the result.
func finalizeConfig(cfg Config) (*Config, error) {
	var err error
	if cfg.Backend, err = ParseBackend(cfg.BackendName); err != nil {
		return nil, err
	}
	if cfg.Mixing.PanLaw, err = ParsePanLaw(cfg.Mixing.PanLawName); err != nil {
		return nil, err
	}
	if cfg.Mixing.CurveAlgorithm, err = ParseCurveAlgorithm(cfg.Mixing.CurveAlgorithmName); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	validRate := false
	for _, r := range audio.SampleRates {
		if c.Audio.SampleRate == r {
			validRate = true
			break
		}
	}
	if !validRate {
		return fmt.Errorf("audio.sample_rate %v is not one of %v", c.Audio.SampleRate, audio.SampleRates)
	}
	if !bitint.IsPowerOfTwo(c.Audio.BufferSize) {
		return fmt.Errorf("audio.buffer_size %d must be a power of two", c.Audio.BufferSize)
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		return fmt.Errorf("audio.channels %d must be 1 or 2", c.Audio.Channels)
	}
	if c.Audio.WorkerCount < 0 {
		return fmt.Errorf("audio.worker_count %d must be >= 0", c.Audio.WorkerCount)
	}
	if !bitint.IsPowerOfTwo(c.Meter.FFTSize) {
		return fmt.Errorf("meter.fft_size %d must be a power of two", c.Meter.FFTSize)
	}
	return nil
}

func (cfg *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("ENV_DEBUG"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			cfg.Debug = bVal
			applog.Infof("config: overriding debug from env: %v", bVal)
		}
	}
	if val, ok := os.LookupEnv("ENV_BACKEND"); ok {
		cfg.BackendName = val
		applog.Infof("config: overriding backend from env: %s", val)
	}
	if val, ok := os.LookupEnv("ENV_AUDIO_OUTPUT_DEVICE"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			cfg.Audio.OutputDevice = iVal
			applog.Infof("config: overriding audio.output_device from env: %d", iVal)
		}
	}
	if val, ok := os.LookupEnv("ENV_AUDIO_SAMPLE_RATE"); ok {
		if fVal, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Audio.SampleRate = fVal
			applog.Infof("config: overriding audio.sample_rate from env: %v", fVal)
		}
	}
	if val, ok := os.LookupEnv("ENV_AUDIO_BUFFER_SIZE"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			cfg.Audio.BufferSize = iVal
			applog.Infof("config: overriding audio.buffer_size from env: %d", iVal)
		}
	}
	if val, ok := os.LookupEnv("ENV_METER_BROADCAST_ADDR"); ok {
		cfg.Meter.BroadcastAddr = val
		applog.Infof("config: overriding meter.broadcast_addr from env: %s", val)
	}
}
