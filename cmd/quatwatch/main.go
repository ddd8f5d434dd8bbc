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
	"github.com/tamzrod/motor-telemetry/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		component  string
		target     int
	)
	flag.StringVar(&configPath, "c", "configs/moteus.yaml", "Path to the configuration file")
	flag.StringVar(&component, "component", "all", "Quaternion component to read: all, x, y or z")
	flag.IntVar(&target, "target", -1, "Override the device target id (0-255)")
	flag.Parse()

	cfg, err := config.LoadValid(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	log := logging.NewLogrus(cfg.Settings.LogLevel, os.Stderr).Get("quatwatch")

	if target > 255 {
		log.Errorf("target %d out of range", target)
		return 1
	}
	if target >= 0 {
		cfg.Device.Target = uint8(target)
	}

	reg, err := cfg.Registry()
	if err != nil {
		log.WithError(err).Error("register map")
		return 1
	}
	layout, err := cfg.Layout(reg)
	if err != nil {
		log.WithError(err).Error("channel layout")
		return 1
	}
	selected, err := layout.QuaternionSelection(telemetry.Component(component))
	if err != nil {
		log.WithError(err).Error("component selection")
		return 1
	}

	// decoding only; health rules do not apply to a partial quaternion
	cfg.Health.Rules = nil
	cfg.Health.Skip = nil

	p, closePoller, err := poller.Build(cfg, selected, log)
	if err != nil {
		log.WithError(err).Error("poller build failed")
		return 1
	}
	defer closePoller()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.WithField("query", p.Query().Requests()).Info("reading quaternion, Ctrl+C to stop")

	out := make(chan poller.PollResult)
	go p.Run(ctx, out)

	for {
		select {
		case <-ctx.Done():
			return 0
		case res := <-out:
			if res.Err != nil {
				log.WithError(res.Err).Warn("query failed")
				continue
			}
			fmt.Printf("---- %s ----\n", res.At.Format("15:04:05.000"))
			if err := report.Quaternion(os.Stdout, p.Layout(), res.Reading); err != nil {
				log.WithError(err).Error("report")
				return 1
			}
		}
	}
}
