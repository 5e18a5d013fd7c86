// Command counsel is a terminal career advisor chat.
//
// Usage:
//
//	GEMINI_API_KEY=gk-... counsel [flags]
//	OPENAI_API_KEY=sk-... counsel [flags]
//
// Flags:
//
//	-config string    Path to config file (default: ~/.counsel/config.yaml)
//	-provider string  Provider: gemini, openai (overrides config)
//	-model string     Model ID (overrides config)
//	-api-key string   API key (overrides provider's env var)
//	-check            Verify API connectivity and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	counsel "github.com/mlevan/counsel"
	bt "github.com/mlevan/counsel/bubbletea"
	"github.com/mlevan/counsel/chat"
	"github.com/mlevan/counsel/config"
	"github.com/mlevan/counsel/metrics"
	"github.com/mlevan/counsel/prompt"
	"github.com/mlevan/counsel/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "counsel: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath   = flag.String("config", "", "Path to config file (default: ~/.counsel/config.yaml)")
		providerFlag = flag.String("provider", "", "Provider: gemini, openai (overrides config)")
		modelFlag    = flag.String("model", "", "Model ID (overrides config)")
		apiKeyFlag   = flag.String("api-key", "", "API key (overrides provider's env var)")
		checkFlag    = flag.Bool("check", false, "Verify API connectivity and exit")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, cfgDir, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	// Flags override the config file and environment.
	if *providerFlag != "" {
		cfg.Provider = *providerFlag
	}
	if *modelFlag != "" {
		cfg.Model = *modelFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// A missing credential is fatal at startup, before any UI appears.
	key := *apiKeyFlag
	if key == "" {
		key, err = cfg.APIKey()
		if err != nil {
			return err
		}
	}

	provider, err := resolveProvider(ctx, cfg.Provider, key, cfg.Model)
	if err != nil {
		return err
	}

	if *checkFlag {
		return checkConnection(ctx, provider, cfg)
	}

	// The TUI owns the terminal, so logs go to a file in the config
	// directory instead of stderr.
	logOut, closeLog, err := openLogFile(cfgDir)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	m := metrics.New()
	if cfg.Prometheus != nil && cfg.Prometheus.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(m)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Prometheus.Port),
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		defer srv.Close()
	}

	// Each exchange is a user turn and an assistant turn.
	st := store.New(store.WithMaxTurns(cfg.MaxHistoryTurns * 2))
	svc := chat.New(provider, st,
		chat.WithModel(cfg.Model),
		chat.WithSystemPrompt(prompt.System()),
		chat.WithMaxTokens(cfg.MaxOutputTokens),
		chat.WithSampling(&cfg.Temperature, &cfg.TopP, &cfg.TopK),
		chat.WithMaxRetries(cfg.MaxRetries),
		chat.WithTimeout(cfg.RequestTimeout()),
		chat.WithMetrics(m),
		chat.WithLogger(logger),
	)

	tui := bt.New(svc.Send, st, counsel.DefaultTheme(),
		bt.WithShowTokenUsage(cfg.UI.ShowTokenUsage),
		bt.WithShowSessionInfo(cfg.UI.ShowSessionInfo),
	)

	if err := bt.Run(ctx, tui); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// loadConfig reads the config file, creating it with defaults on first run,
// and applies environment overrides. It returns the config directory so
// other runtime files can live next to the config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		path = defaultConfigPath()
	}
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create config directory: %w", err)
	}
	if err := config.CreateConfigIfNotExists(path); err != nil {
		return nil, "", fmt.Errorf("create config: %w", err)
	}
	cfg, err := config.ReadConfig(path)
	if err != nil {
		return nil, "", fmt.Errorf("read config: %w", err)
	}
	if err := cfg.PopulateFromEnvironment(); err != nil {
		return nil, "", fmt.Errorf("environment: %w", err)
	}
	return cfg, dir, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".counsel", "config.yaml")
}

func openLogFile(dir string) (io.Writer, func(), error) {
	f, err := os.OpenFile(filepath.Join(dir, "counsel.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// checkConnection sends a one-shot request to verify credentials and
// connectivity, then reports the outcome on stdout.
func checkConnection(ctx context.Context, provider counsel.Provider, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout())
	defer cancel()

	resp, err := provider.Generate(ctx, counsel.Request{
		Model:     cfg.Model,
		Prompt:    "Say OK",
		MaxTokens: 16,
	})
	if err != nil {
		return fmt.Errorf("connection check failed: %w", err)
	}
	fmt.Printf("OK: %s replied using model %s\n", cfg.Provider, resp.Model)
	return nil
}
