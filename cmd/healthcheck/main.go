package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tamzrod/motor-telemetry/internal/config"
	"github.com/tamzrod/motor-telemetry/internal/logging"
	"github.com/tamzrod/motor-telemetry/internal/poller"
	"github.com/tamzrod/motor-telemetry/internal/report"
)

const (
	exitPassed  = 0
	exitFailed  = 1
	exitRuntime = 2

	groupMotor = "motor"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		target     int
		noMotor    bool
	)
	flag.StringVar(&configPath, "c", "configs/moteus.yaml", "Path to the configuration file")
	flag.IntVar(&target, "target", -1, "Override the device target id (0-255)")
	flag.BoolVar(&noMotor, "nomotor", false, "Skip the motor temperature checks")
	flag.Parse()

	cfg, err := config.LoadValid(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return exitRuntime
	}

	log := logging.NewLogrus(cfg.Settings.LogLevel, os.Stderr).Get("healthcheck")

	if target >= 0 {
		if target > 255 {
			log.Errorf("target %d out of range", target)
			return exitRuntime
		}
		cfg.Device.Target = uint8(target)
	}
	if noMotor {
		cfg.Health.Skip = append(cfg.Health.Skip, groupMotor)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// read only what the enabled checks need; base channels serve quatwatch
	reg, err := cfg.Registry()
	if err != nil {
		log.WithError(err).Error("register map")
		return exitRuntime
	}
	layout, err := cfg.Layout(reg)
	if err != nil {
		log.WithError(err).Error("channel layout")
		return exitRuntime
	}
	selected, err := cfg.HealthChannels(layout)
	if err != nil {
		log.WithError(err).Error("health channels")
		return exitRuntime
	}
	if len(selected) == 0 {
		log.Error("every health check is skipped")
		return exitRuntime
	}
	cfg.Channels.Base = nil

	p, closePoller, err := poller.Build(cfg, selected, log)
	if err != nil {
		log.WithError(err).Error("poller build failed")
		return exitRuntime
	}
	defer closePoller()

	fmt.Printf("Performing health check on device (target: %d)...\n", cfg.Device.Target)

	res := p.PollOnce(ctx)
	if res.Err != nil {
		log.WithError(res.Err).Error("health check query failed")
		return exitRuntime
	}

	if err := report.Values(os.Stdout, res.Reading.Values); err != nil {
		log.WithError(err).Error("report")
		return exitRuntime
	}
	fmt.Println()
	if err := report.Verdict(os.Stdout, res.Verdict); err != nil {
		log.WithError(err).Error("report")
		return exitRuntime
	}

	if !res.Verdict.Passed {
		return exitFailed
	}
	return exitPassed
}
