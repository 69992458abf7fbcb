package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/hlai/ai-hub-gateway/internal/config"
	"github.com/hlai/ai-hub-gateway/internal/gateway"
	"github.com/hlai/ai-hub-gateway/internal/monitoring"
)

var errHelp = errors.New("help requested")

type serveOptions struct {
	configPath string
	port       int
	debug      bool
}

func parseServeArgs(args []string, getenv func(string) string) (serveOptions, error) {
	opts := serveOptions{configPath: getenv("GATEWAY_CONFIG")}

	i := 0
	for i < len(args) {
		switch args[i] {
		case "-h", "--help":
			return opts, errHelp
		case "-c", "--config":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--config requires a value")
			}
			opts.configPath = args[i+1]
			i += 2
		case "-p", "--port":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--port requires a value")
			}
			port, err := strconv.Atoi(args[i+1])
			if err != nil || port <= 0 || port > 65535 {
				return opts, fmt.Errorf("invalid port '%s'", args[i+1])
			}
			opts.port = port
			i += 2
		case "-d", "--debug":
			opts.debug = true
			i++
		default:
			return opts, fmt.Errorf("unknown option: %s", args[i])
		}
	}
	return opts, nil
}

// runServeCommand starts the gateway and blocks until SIGINT/SIGTERM.
func runServeCommand(args []string) int {
	envFiles := loadEnvFiles()

	opts, err := parseServeArgs(args, os.Getenv)
	if errors.Is(err, errHelp) {
		printHelp()
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}

	level := cfg.Monitoring.LogLevel
	if opts.debug {
		level = "debug"
	}
	logCloser, err := monitoring.SetupLogger(monitoring.LoggerConfig{
		Level:  level,
		Format: cfg.Monitoring.LogFormat,
		Output: cfg.Monitoring.LogOutput,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log output: %v\n", err)
		return 1
	}
	defer func() { _ = logCloser.Close() }()

	// net/http server errors go through zerolog too.
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	if len(envFiles) > 0 {
		log.Info().Str("files", strings.Join(envFiles, ",")).Msg("loaded .env")
	}

	gw, err := gateway.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to start gateway")
		return 1
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- gw.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
			return 1
		}
		return 0
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), gw.ShutdownTimeout())
	defer cancel()
	if err := gw.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown did not complete")
		return 1
	}
	return 0
}
