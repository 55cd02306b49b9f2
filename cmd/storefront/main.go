package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/notify"
	"storefront/internal/session"
	"storefront/internal/storefront"
	"storefront/internal/telemetry"
	"storefront/internal/ui"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}
	short := c
	if len(c) > 7 {
		short = c[:7]
	}
	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// flags holds global CLI options.
type flags struct {
	ConfigPath string
	DataDir    string
	LogLevel   string
	LogFile    string
	APIURL     string
	Theme      string
	Session    string
}

func main() {
	var (
		f         flags
		cfg       *config.Config
		logCloser func()
		tracing   *telemetry.Provider
	)

	defaultDataDir, err := config.DefaultDataDir()
	if err != nil {
		defaultDataDir = config.DefaultDataBase
	}

	app := &cli.Command{
		Name:      "storefront",
		Usage:     "Browse the store and manage your cart from the terminal",
		UsageText: "storefront [global options] [command]",
		Version:   build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("STOREFRONT_CONFIG"),
				Value:       config.DefaultConfigPath(),
				Destination: &f.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("STOREFRONT_DATA_DIR"),
				Value:       defaultDataDir,
				Destination: &f.DataDir,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("STOREFRONT_LOG_LEVEL"),
				Destination: &f.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/storefront.log)",
				Sources:     cli.EnvVars("STOREFRONT_LOG_FILE"),
				Destination: &f.LogFile,
			},
			&cli.StringFlag{
				Name:        "api-url",
				Usage:       "backend base URL (overrides config and " + config.APIURLEnv + ")",
				Destination: &f.APIURL,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "overlay theme (default, minimal)",
				Destination: &f.Theme,
			},
			&cli.StringFlag{
				Name:        "session",
				Usage:       "resume a file-backed session by id",
				Destination: &f.Session,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			loaded, err := config.Load(f.ConfigPath, f.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if f.APIURL != "" {
				loaded.APIBaseURL = strings.TrimRight(strings.TrimSpace(f.APIURL), "/")
			}
			if f.Theme != "" {
				loaded.Theme = f.Theme
			}
			if f.LogLevel != "" {
				loaded.LogLevel = f.LogLevel
			}
			if err := loaded.Validate(); err != nil {
				return ctx, fmt.Errorf("invalid flags: %w", err)
			}
			cfg = loaded

			// Always log to a file; the TUI owns the terminal.
			logFile := f.LogFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}
			w, closer, err := logging.OpenFile(logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			logCloser = closer
			if err := logging.Setup(w, cfg.LogLevel); err != nil {
				return ctx, err
			}

			tracing, err = telemetry.Setup(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("tracing disabled")
			}
			log.Info().
				Str("version", build()).
				Str("api", cfg.APIBaseURL).
				Bool("tracing", tracing.Enabled()).
				Msg("starting")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("flush traces")
			}
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runTUI(ctx, cfg, f.Session)
		},
		Commands: []*cli.Command{
			{
				Name:      "products",
				Usage:     "Print the products of a category",
				ArgsUsage: "<category-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "sort",
						Usage: "price order (asc, desc, none)",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					id := c.Args().First()
					if id == "" {
						return errors.New("category id is required")
					}
					return printProducts(ctx, os.Stdout, cfg, id, storefront.ParseSortOrder(c.String("sort")))
				},
			},
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(ctx context.Context, c *cli.Command) error {
					fmt.Println(build())
					return nil
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

// openSession picks the session store. A session id or the file backend
// makes toasts survive a restart.
func openSession(cfg *config.Config, id string) (session.Store, error) {
	if id == "" && cfg.SessionStore != config.SessionStoreFile {
		return session.NewMemoryStore(), nil
	}
	if id == "" {
		id = session.NewID()
	}
	store, err := session.NewFileStore(cfg.SessionDir(), id)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	log.Info().Str("session", id).Str("path", store.Path()).Msg("file session")
	return store, nil
}

func newClient(cfg *config.Config) (*api.Client, error) {
	return api.New(cfg.APIBaseURL, api.WithTimeout(cfg.RequestTimeout))
}

func runTUI(ctx context.Context, cfg *config.Config, sessionID string) error {
	store, err := openSession(cfg, sessionID)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctrl := notify.NewController(notify.Options{
		Store:          store,
		Theme:          notify.ParseTheme(cfg.Theme),
		Delay:          cfg.ToastDuration,
		LoadingMessage: cfg.LoadingMessage,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewAppModel(ui.Options{
		Notifier:   ctrl,
		Backend:    client,
		Categories: cfg.Categories,
		Currency:   cfg.Currency,
		BaseURL:    client.BaseURL(),
		Context:    ctx,
	})
	p := tea.NewProgram(model.AsTeaModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	ui.SubscribeProgram(ctrl, p)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func printProducts(ctx context.Context, w io.Writer, cfg *config.Config, id string, order storefront.SortOrder) error {
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	products, err := client.ProductsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch category %q: %w", id, err)
	}
	for _, p := range storefront.SortProducts(products, order) {
		line := fmt.Sprintf("%-24s %-40s %12s", p.ID, p.Name, storefront.FormatPrice(p.Price, cfg.Currency))
		if brand := p.BrandName(); brand != "" {
			line += "  " + brand
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
