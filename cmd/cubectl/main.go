// Command cubectl drives a group of cubes from an interactive prompt.
//
// Usage:
//
//	cubectl [flags]
//
// Flags:
//
//	-config string        YAML configuration file
//	-model string         Hardware model: g2, g3, g4, wormbot, crawlingbot
//	-group string         Group token (0-76, digits must differ)
//	-readiness string     Group readiness policy: full, last-index
//	-log-level string     Log level: debug, info, warn, error
//	-log-file string      Write logs to a rotating file instead of stderr
//	-protocol-log string  Capture frames and state changes to a .clog file
//	-simulate             Drive an in-memory group instead of the radio
//	-connect              Connect before showing the prompt
//
// Every flag can also be set in the configuration file or through a
// CUBELINK_* environment variable; flags win.
//
// Examples:
//
//	# Try the commands without hardware
//	cubectl -simulate -model wormbot -connect
//
//	# Drive group 12 and keep a protocol capture
//	cubectl -model g3 -group 12 -protocol-log session.clog
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
	"tinygo.org/x/bluetooth"

	"github.com/cubelink/cubelink-go/cmd/cubectl/interactive"
	"github.com/cubelink/cubelink-go/internal/config"
	"github.com/cubelink/cubelink-go/internal/sim"
	"github.com/cubelink/cubelink-go/pkg/connection"
	"github.com/cubelink/cubelink-go/pkg/cube"
	plog "github.com/cubelink/cubelink-go/pkg/log"
	"github.com/cubelink/cubelink-go/pkg/transport"
	"github.com/cubelink/cubelink-go/pkg/transport/ble"
)

type flags struct {
	configFile  string
	model       string
	group       string
	readiness   string
	logLevel    string
	logFile     string
	protocolLog string
	simulate    bool
	connect     bool
}

func parseFlags(args []string) (flags, *flag.FlagSet, error) {
	var f flags
	fs := flag.NewFlagSet("cubectl", flag.ContinueOnError)
	fs.StringVar(&f.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&f.model, "model", "", "Hardware model: g2, g3, g4, wormbot, crawlingbot")
	fs.StringVar(&f.group, "group", "", "Group token (0-76, digits must differ)")
	fs.StringVar(&f.readiness, "readiness", "", "Group readiness policy: full, last-index")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.logFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	fs.StringVar(&f.protocolLog, "protocol-log", "", "Capture frames and state changes to a .clog file")
	fs.BoolVar(&f.simulate, "simulate", false, "Drive an in-memory group instead of the radio")
	fs.BoolVar(&f.connect, "connect", false, "Connect before showing the prompt")
	err := fs.Parse(args)
	return f, fs, err
}

// loadConfig layers flags that were set over the file and environment.
func loadConfig(f flags, fs *flag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return cfg, err
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "model":
			cfg.Model = f.model
		case "group":
			cfg.Group = f.group
		case "readiness":
			cfg.Readiness = f.readiness
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-file":
			cfg.Log.File = f.logFile
		case "protocol-log":
			cfg.Log.ProtocolFile = f.protocolLog
		case "simulate":
			cfg.Simulate = f.simulate
		}
	})
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config, console io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = console
	var closer io.Closer = nopCloser{}
	if cfg.Log.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}
		w, closer = lj, lj
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}

func newScanner(cfg config.Config, logger *slog.Logger) transport.Scanner {
	if cfg.Simulate {
		return sim.NewAggregator(cfg.Token().ScanName(), sim.WithLogger(logger))
	}
	return ble.NewScanner(bluetooth.DefaultAdapter, logger)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "cubectl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	f, fs, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(f, fs)
	if err != nil {
		return err
	}
	model, err := cube.LookupModel(cfg.Model)
	if err != nil {
		return err
	}

	// The prompt needs the controller, and the controller needs the
	// logger; console logs go through a writer swapped to the prompt below.
	console := &switchWriter{w: os.Stderr}
	logger, logCloser, err := newLogger(cfg, console)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	var protocol plog.Logger
	if cfg.Log.ProtocolFile != "" {
		fl, err := plog.NewFileLogger(cfg.Log.ProtocolFile)
		if err != nil {
			return fmt.Errorf("protocol log: %w", err)
		}
		defer fl.Close()
		protocol = fl
		if level, _ := config.ParseLevel(cfg.Log.Level); level <= slog.LevelDebug {
			protocol = plog.NewMultiLogger(fl, plog.NewSlogAdapter(logger))
		}
	}

	ctrl, err := cube.NewController(cube.Config{
		Model:        model,
		Token:        cfg.Token(),
		Policy:       cfg.Policy(),
		Scanner:      newScanner(cfg, logger),
		MaxFrameSize: cfg.MaxFrameSize,
		ScanBackoff: connection.BackoffConfig{
			Initial: cfg.Scan.InitialBackoff,
			Max:     cfg.Scan.MaxBackoff,
			Jitter:  connection.JitterFactor,
		},
		HandshakeTimeout: cfg.HandshakeTimeout,
		TeardownGrace:    cfg.TeardownGrace,
		Logger:           logger,
		ProtocolLogger:   protocol,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	logger.Info("cubectl starting", "model", model.Name, "group", cfg.Token(), "simulate", cfg.Simulate)

	session, err := interactive.New(ctrl)
	if err != nil {
		return err
	}
	console.set(session.Stderr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if f.connect {
			session.Execute(ctx, "connect")
		}
		err := session.Run(ctx)
		stop()
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		ctrl.Cancel()
		return nil
	})

	err = g.Wait()
	session.Wait()
	logger.Info("shutting down", "state", ctrl.Status().State)
	return err
}
