// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dawengine/cmd"
	"dawengine/internal/audio"
	"dawengine/internal/config"
	"dawengine/internal/control"
	"dawengine/internal/engine"
	"dawengine/internal/graphexport"
	"dawengine/internal/log"
	"dawengine/internal/port"
	"dawengine/internal/projectfile"
	"dawengine/internal/router"
	"dawengine/internal/sampleplayback"
	"dawengine/internal/timeline"
)

// The program flow is divided into three phases:
//
//  1. Startup (cold path): parse CLI args, dispatch one-off commands
//     (list, graph) that print and exit without opening hardware.
//  2. Concurrent (hot path): build the routing graph, open the audio
//     backend, and run until a termination signal arrives.
//  3. Shutdown (cold path): stop the backend and scheduler.
func main() {
	opts, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	switch opts.Command {
	case "list":
		if err := runList(); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
	case "graph":
		if err := runGraph(opts); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
	default:
		if err := runEngine(opts); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
	}
}

func runList() error {
	devices, err := audio.HostDevices()
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}
	if len(devices) == 0 {
		fmt.Println("No audio devices found.")
		return nil
	}
	fmt.Printf("\nAvailable Audio Devices (%d found)\n\n", len(devices))
	for _, d := range devices {
		printDeviceDetails(d)
	}
	return nil
}

func printDeviceDetails(device audio.Device) {
	deviceType := "Unknown"
	switch {
	case device.MaxInputChannels > 0 && device.MaxOutputChannels > 0:
		deviceType = "Input/Output"
	case device.MaxInputChannels > 0:
		deviceType = "Input"
	case device.MaxOutputChannels > 0:
		deviceType = "Output"
	}

	defaultMarker := ""
	switch {
	case device.IsDefaultInput && device.IsDefaultOutput:
		defaultMarker = " (Default Input & Output)"
	case device.IsDefaultInput:
		defaultMarker = " (Default Input)"
	case device.IsDefaultOutput:
		defaultMarker = " (Default Output)"
	}

	fmt.Printf("[%d] %s%s\n", device.ID, device.Name, defaultMarker)
	fmt.Printf("    Type: %s, Host API: %s\n", deviceType, device.HostApiName)
	fmt.Printf("    Channels: Input=%d, Output=%d\n", device.MaxInputChannels, device.MaxOutputChannels)
	fmt.Printf("    Default Sample Rate: %.0f Hz\n", device.DefaultSampleRate)
	if device.MaxOutputChannels > 0 {
		fmt.Printf("    Default Output Latency: Low=%.2fms, High=%.2fms\n",
			device.DefaultLowOutputLatency.Seconds()*1000,
			device.DefaultHighOutputLatency.Seconds()*1000)
	}
	fmt.Println()
}

func runGraph(opts *cmd.Options) error {
	snap, err := projectfile.Load(opts.ProjectPath)
	if err != nil {
		return err
	}
	g, err := router.Build(snap)
	if err != nil {
		return fmt.Errorf("failed to build routing graph: %w", err)
	}
	dot := graphexport.DOT(g)

	if opts.DotOutPath == "" || opts.DotOutPath == "-" {
		fmt.Print(dot)
		return nil
	}
	return os.WriteFile(opts.DotOutPath, []byte(dot), 0644)
}

func runEngine(opts *cmd.Options) error {
	cfg := opts.Config
	if level, ok := log.ParseLevel(cfg.LogLevel); ok {
		log.SetLevel(level)
	}

	eng, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	backendCfg := engine.BackendConfig{
		SampleRate: cfg.Audio.SampleRate,
		BlockSize:  cfg.Audio.BufferSize,
		Channels:   cfg.Audio.Channels,
	}

	var backend engine.Backend
	switch cfg.Backend {
	case config.BackendOffline:
		backend = audio.NewOfflineBackend("")
	default:
		backend = audio.NewPortAudioBackend(cfg.Audio.OutputDevice, false)
	}

	if err := eng.Open(backend, backendCfg); err != nil {
		return fmt.Errorf("failed to open audio backend: %w", err)
	}
	if err := eng.Start(); err != nil {
		return fmt.Errorf("failed to start audio stream: %w", err)
	}
	log.Info("Audio stream started. Waiting for interrupt signal (Ctrl+C)...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received, stopping engine...")
	if err := eng.Stop(); err != nil {
		log.Errorf("failed to stop engine cleanly: %v", err)
	}
	log.Info("Engine stopped.")
	return nil
}

// buildEngine wires together every routing-engine component around a
// minimal graph: a single track-processor node with a no-op payload and
// no edges. The master bus ports are handed to the engine through
// SetMasterBus; no node in this graph writes them. A real project would instead call
// projectfile.Load (or an equivalent in-process builder) with its
// full node/edge set before router.Build.
func buildEngine(cfg *config.Config) (*engine.Engine, func(), error) {
	masterL := port.New(port.ID{OwnerKind: port.OwnerFader, Role: port.RoleOutput}, "master-L", port.Audio, 0)
	masterR := port.New(port.ID{OwnerKind: port.OwnerFader, Role: port.RoleOutput, Index: 1}, "master-R", port.Audio, 0)
	if err := masterL.AllocateBuffers(cfg.Audio.BufferSize); err != nil {
		return nil, nil, fmt.Errorf("failed to allocate master bus: %w", err)
	}
	if err := masterR.AllocateBuffers(cfg.Audio.BufferSize); err != nil {
		return nil, nil, fmt.Errorf("failed to allocate master bus: %w", err)
	}

	snap := router.ProjectSnapshot{
		Nodes: []router.NodeSpec{
			{ID: 1, Kind: router.NodeTrackProcessor, Name: "track-1", Payload: router.NoOpPayload{}},
		},
	}
	g, err := router.Build(snap)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build routing graph: %w", err)
	}

	workers := cfg.Audio.WorkerCount
	sched := router.NewScheduler(workers)
	if err := sched.SwapGraph(context.Background(), g); err != nil {
		return nil, nil, fmt.Errorf("failed to install initial graph: %w", err)
	}

	transport := timeline.New(cfg.Audio.SampleRate)
	controlQueue := control.NewQueue()
	sampleMixer := sampleplayback.NewMixer(32)

	eng := engine.New(transport, sched, controlQueue, sampleMixer)
	eng.SetMasterBus(masterL, masterR)
	eng.OnFault = func(err error) {
		log.Errorf("engine fault: %v", err)
	}

	cleanup := func() {
		sched.Stop()
	}
	return eng, cleanup, nil
}
