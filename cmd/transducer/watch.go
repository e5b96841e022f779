package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/transducer/cmd/transducer/console"
	"github.com/mklimuk/transducer/config"
	"github.com/mklimuk/transducer/poll"
	"github.com/mklimuk/transducer/pressure"
	"github.com/mklimuk/transducer/server"
	"github.com/mklimuk/transducer/sink"
	"github.com/mklimuk/transducer/snsctx"
)

var watchCmd = cli.Command{
	Name:  "watch",
	Usage: "poll the sensor and publish every reading",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to the YAML configuration",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		cfg := config.Default()
		if path := c.String("config"); path != "" {
			var err error
			cfg, err = config.Load(path)
			if err != nil {
				return console.Exit(1, "configuration error: %s", console.Red(err))
			}
		}
		bc, err := busConfig(c, cfg.Bus)
		if err != nil {
			return console.Exit(1, "invalid bus flags: %s", console.Red(err))
		}
		cfg.Bus = bc
		if err := cfg.Validate(); err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = snsctx.SetVerbose(ctx, c.Bool("verbose"))
		if err := watch(ctx, cfg); err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		return nil
	},
}

// outputs collects the sinks built from the configuration.
type outputs struct {
	pressure    sink.Multi
	temperature sink.Multi
	observer    pressure.Observer
	latest      *sink.Latest
	registry    *prometheus.Registry
	closers     []func()
}

func (o *outputs) add(forQ func(q sink.Quantity) pressure.Sink) {
	o.pressure = append(o.pressure, forQ(sink.Pressure))
	o.temperature = append(o.temperature, forQ(sink.Temperature))
}

func (o *outputs) close() {
	for i := len(o.closers) - 1; i >= 0; i-- {
		o.closers[i]()
	}
}

func buildOutputs(cfg *config.Config, logger *slog.Logger) (*outputs, error) {
	o := &outputs{
		latest:   sink.NewLatest(nil),
		registry: prometheus.NewRegistry(),
	}
	o.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := sink.NewMetrics(o.registry, cfg.Sensor.Name)
	if err != nil {
		return nil, fmt.Errorf("could not register metrics: %w", err)
	}
	o.observer = metrics
	o.add(metrics.For)
	o.add(o.latest.For)
	o.add(func(q sink.Quantity) pressure.Sink { return sink.Log(logger, q) })

	if cfg.MQTT.Broker != "" {
		m, err := sink.DialMQTT(sink.MQTTOpts{
			Broker:      cfg.MQTT.Broker,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			ClientID:    cfg.MQTT.ClientID,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			Device:      cfg.Sensor.Name,
			Model:       cfg.Sensor.Model,
			Discovery:   cfg.MQTT.Discovery,
			Logger:      logger,
		})
		if err != nil {
			o.close()
			return nil, err
		}
		o.add(m.For)
		o.closers = append(o.closers, m.Close)
	}
	if len(cfg.Kafka.Brokers) > 0 {
		k := sink.NewKafka(sink.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), cfg.Sensor.Name, cfg.Sensor.Model, nil)
		o.add(k.For)
		o.closers = append(o.closers, func() {
			if err := k.Close(); err != nil {
				logger.Warn("could not close kafka writer", "err", err)
			}
		})
	}
	return o, nil
}

func watch(ctx context.Context, cfg *config.Config) error {
	logger := slog.Default().With("sensor", cfg.Sensor.Name)
	model, err := cfg.Sensor.ParsedModel()
	if err != nil {
		return err
	}
	out, err := buildOutputs(cfg, logger)
	if err != nil {
		return err
	}
	defer out.close()

	bus, closeBus, err := openBus(ctx, cfg.Bus, model)
	if err != nil {
		return fmt.Errorf("adapter initialization error: %w", err)
	}
	defer func() {
		if err := closeBus(); err != nil {
			logger.Warn("error closing bus", "err", err)
		}
	}()

	s := pressure.NewAMS5935(bus,
		pressure.WithAddress(cfg.Bus.Address),
		pressure.WithMode(cfg.Sensor.Mode()),
		pressure.WithLogger(logger),
		pressure.WithSetupAttempts(cfg.Sensor.SetupAttempts),
		pressure.WithRetryPause(cfg.Sensor.RetryPause),
		pressure.WithPressureSink(out.pressure),
		pressure.WithTemperatureSink(out.temperature),
		pressure.WithObserver(out.observer),
	)
	if err := s.SetModel(model); err != nil {
		return err
	}
	s.DumpConfig()

	if cfg.HTTP.Listen != "" {
		srv := &http.Server{
			Addr:              cfg.HTTP.Listen,
			Handler:           server.Handler(out.latest, out.registry, os.Stdout),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("http listening", "addr", cfg.HTTP.Listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server failed", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	console.PInfof(console.PictoPin, "watching %s every %s", console.White(s), cfg.Sensor.UpdateInterval)
	return poll.Run(ctx, s, cfg.Sensor.UpdateInterval, logger)
}
