package commands

import (
	"avanza-scraper/lib/configutil"
	"avanza-scraper/lib/restyutil"
	"avanza-scraper/lib/scrapers/avanza/core"
	"avanza-scraper/lib/scrapers/avanza/view"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

type Config struct {
	BaseUrl  string            `json:"base_url"`
	Username string            `json:"username"`
	Password string            `json:"password"`
	Headers  map[string]string `json:"headers"`
	// scheme -> proxy url
	Proxy     map[string]string `json:"proxy"`
	Selectors *core.Selectors   `json:"selectors"`
	// seconds, defaults to 30
	Timeout int    `json:"timeout"`
	PushUrl string `json:"push_url"`
	Debug   bool   `json:"debug"`
	// http messages are written here when debug is on
	DumpDir string `json:"dump_dir"`
}

// readConfig reads the config file (and its .local override), a missing file
// is an empty config. credentials fall back to AVANZA_USERNAME and
// AVANZA_PASSWORD.
func readConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if cfg.Username == "" {
		cfg.Username = os.Getenv("AVANZA_USERNAME")
	}
	if cfg.Password == "" {
		cfg.Password = os.Getenv("AVANZA_PASSWORD")
	}
	return cfg, nil
}

func createSession(ctx context.Context, cfg Config) (*core.Client, error) {
	opts := core.ClientOptions{
		BaseUrl:   cfg.BaseUrl,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Headers:   cfg.Headers,
		Proxy:     cfg.Proxy,
		Selectors: cfg.Selectors,
		Timeout:   time.Duration(cfg.Timeout) * time.Second,
		Logger:    slog.Default(),
	}
	if cfg.Debug && cfg.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(cfg.DumpDir)
		if err != nil {
			return nil, err
		}
		opts.InstrumentOutput = output
	}
	return core.NewClient(ctx, opts)
}

type globalsKey struct{}

type globals struct {
	Config  Config
	Session *core.Client
}

func withGlobals(ctx context.Context, g *globals) context.Context {
	return context.WithValue(ctx, globalsKey{}, g)
}

func getGlobals(ctx context.Context) *globals {
	return ctx.Value(globalsKey{}).(*globals)
}

// loginView logs the session in and wraps it in a view client.
func loginView(ctx context.Context) (view.Client, error) {
	g := getGlobals(ctx)
	if err := g.Session.RequireAuth(); err != nil {
		return view.Client{}, fmt.Errorf("%w: set username and password in %s", err, configPath)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return view.NewClient(ctx, g.Session)
}
