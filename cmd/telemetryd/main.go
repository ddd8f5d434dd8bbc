package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/motor-telemetry/internal/config"
	"github.com/tamzrod/motor-telemetry/internal/logging"
	"github.com/tamzrod/motor-telemetry/internal/poller"
	"github.com/tamzrod/motor-telemetry/internal/status"
	"github.com/tamzrod/motor-telemetry/internal/writer"
	wamqp "github.com/tamzrod/motor-telemetry/internal/writer/amqp"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "c", "", "Path to the configuration file")
	flag.Parse()

	if configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: telemetryd -c <config.yaml>")
		os.Exit(1)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.LoadValid(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logs := logging.NewLogrus(cfg.Settings.LogLevel, os.Stderr)
	log := logs.Get("telemetryd")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logs); err != nil {
		log.WithError(err).Error("telemetryd stopped")
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logs *logging.Logrus) error {
	log := logs.Get("telemetryd")

	// ---- poller ----
	p, closePoller, err := poller.Build(cfg, nil, logs.Get("poller"))
	if err != nil {
		return err
	}
	defer closePoller()

	// ---- status writer (optional) ----
	statusWriter, closeStatus, statusEnabled, err := writer.BuildStatusWriter(cfg)
	if err != nil {
		return err
	}
	defer closeStatus()

	// ---- publisher (optional) ----
	var pub *wamqp.Publisher
	if pc := cfg.Publish; pc != nil {
		pub, err = wamqp.Dial(wamqp.Config{
			URL:        pc.URL,
			Exchange:   pc.Exchange,
			RoutingKey: pc.RoutingKey,
		}, logs.Get("amqp"))
		if err != nil {
			return err
		}
		defer pub.Close()
	}

	tracker := status.NewTracker()
	writeStatus := func(s status.Snapshot) {
		if !statusEnabled {
			return
		}
		if err := statusWriter.WriteStatus(s); err != nil {
			log.WithError(err).Warn("status write failed")
		}
	}

	// Full block write on start (identity re-assert).
	writeStatus(tracker.Snapshot())

	out := make(chan poller.PollResult)
	go p.Run(ctx, out)

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	log.WithFields(logrus.Fields{
		"endpoint": cfg.Device.Endpoint,
		"target":   cfg.Device.Target,
		"status":   statusEnabled,
		"publish":  pub != nil,
	}).Info("telemetry daemon started")

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil

		case res := <-out:
			logResult(log, res)

			if pub != nil {
				if err := pub.Publish(ctx, res); err != nil {
					log.WithError(err).Warn("publish failed")
				}
			}

			if snap, changed := tracker.Observe(res.Err, res.Verdict); changed {
				writeStatus(snap)
			}

		case <-secTicker.C:
			// seconds_in_error advances at 1 Hz only
			if snap, changed := tracker.Tick(); changed {
				writeStatus(snap)
			}
		}
	}
}

func logResult(log *logrus.Entry, res poller.PollResult) {
	if res.Err != nil {
		log.WithError(res.Err).Warn("poll failed")
		return
	}
	if res.Verdict.Passed {
		log.Debug("health checks passed")
		return
	}
	for _, c := range res.Verdict.Failed() {
		log.WithFields(logrus.Fields{
			"check":      c.Name,
			"suspicious": c.Suspicious,
		}).Warn(c.Reason)
	}
}
