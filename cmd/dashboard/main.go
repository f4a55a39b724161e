package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"mcainsights/internal/app"
	"mcainsights/internal/config"
	"mcainsights/internal/infrastructure"
)

type options struct {
	configFile string
	envFile    string
	port       int
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.configFile, "config", os.Getenv(config.EnvPrefix+"_CONFIG_FILE"), "path to a YAML config file")
	fs.StringVar(&opts.envFile, "env", ".env", "path to a .env file (skipped when missing)")
	fs.IntVar(&opts.port, "port", 0, "listen port; overrides the configured one when set")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.port < 0 || opts.port > 65535 {
		return options{}, fmt.Errorf("invalid port: %d", opts.port)
	}
	return opts, nil
}

func loadConfig(opts options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile == "" && opts.envFile == ".env" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFrom(opts.configFile, opts.envFile)
	}
	if err != nil {
		return nil, err
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}
	return cfg, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}
