package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ozgurozkan01/pyLog/internal/api"
	"github.com/ozgurozkan01/pyLog/internal/config"
	"github.com/ozgurozkan01/pyLog/internal/logging"
	"github.com/ozgurozkan01/pyLog/internal/sample"
	"github.com/ozgurozkan01/pyLog/internal/tui"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	mode := flag.String("mode", "", "Data source: remote or local")
	baseURL := flag.String("url", "", "API base URL; ?section=events selects the initial section")
	token := flag.String("token", "", "API token (defaults to $PYLOG_TOKEN)")
	section := flag.String("section", "", "Initial section: dashboard or events")
	logFile := flag.String("log-file", "", "Write logs to this file")
	samplePath := flag.String("sample", "", "JSONL file to use in local mode instead of the bundled sample")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("pylog", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Client.Mode = *mode
	}
	if *baseURL != "" {
		cfg.Client.BaseURL = *baseURL
	}
	if *token != "" {
		cfg.Client.Token = *token
	} else if cfg.Client.Token == "" {
		cfg.Client.Token = os.Getenv("PYLOG_TOKEN")
	}
	if *samplePath != "" {
		cfg.Client.SamplePath = *samplePath
	}
	if *logFile != "" {
		cfg.Logging.OutputFile = *logFile
	}
	if cfg.Logging.OutputFile == "" {
		cfg.Logging.OutputFile = logging.DefaultTUILogFile()
	}
	if err := cfg.ValidateClient(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	source, target, err := openSource(cfg.Client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting dashboard",
		zap.String("version", version),
		zap.String("mode", source.Name()),
		zap.String("target", target),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := tui.NewApp(source, tui.Options{
		Target:  target,
		Section: tui.InitialSection(*section, cfg.Client.BaseURL),
		Context: ctx,
	}, logger.Named(logging.ComponentTUI))

	p := tea.NewProgram(&app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.Error("dashboard exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openSource(cfg config.ClientConfig) (tui.Source, string, error) {
	if cfg.Mode == config.ModeLocal {
		if cfg.SamplePath == "" {
			src, err := sample.New(nil)
			return src, "bundled sample", err
		}
		f, err := os.Open(cfg.SamplePath)
		if err != nil {
			return nil, "", fmt.Errorf("open sample: %w", err)
		}
		defer f.Close()
		src, err := sample.FromReader(f, nil)
		return src, cfg.SamplePath, err
	}

	client, err := api.NewClient(cfg.BaseURL, cfg.Token, cfg.Timeout)
	if err != nil {
		return nil, "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		return nil, "", fmt.Errorf("%s: %w", client.BaseURL(), err)
	}
	return client, client.BaseURL(), nil
}
