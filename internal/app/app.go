package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"catalog-go/internal/catalog"
	"catalog-go/internal/config"
	"catalog-go/internal/content"
	"catalog-go/internal/encryption"
	"catalog-go/internal/server"
	"catalog-go/internal/stats"
)

// EnvKeyPassphrase unlocks the content key for encrypted stores when no
// passphrase is passed in Options.
const EnvKeyPassphrase = "CATALOG_KEY_PASSPHRASE"

// Options tune how a CatalogApp is built.
type Options struct {
	// Operation names the CLI command, e.g. "serve" or "content-import".
	Operation string
	// Passphrase unlocks the content key when content.encrypt is on.
	Passphrase string
	// Verbose enables debug logging.
	Verbose bool
}

// CatalogApp is the application layer between the CLI and the catalog core.
// It constructs all dependencies from config and releases them on Close.
type CatalogApp struct {
	cfg       *config.Config
	op        *Operation
	logger    catalog.Logger
	logFile   *os.File
	content   *content.Store
	closeStat func() error

	catalog  *catalog.Catalog
	editor   *catalog.Editor
	sessions *catalog.Sessions
	gate     *catalog.Gate
}

// NewCatalogApp creates a fully wired CatalogApp from the given config and
// loads the content tree. The caller must call Close when done.
func NewCatalogApp(ctx context.Context, cfg *config.Config, opts Options) (*CatalogApp, error) {
	op := NewOperation(opts.Operation, time.Now())
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	sl, logFile, err := newLogger(cfg.LogDir, op.RunID(), level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	a := &CatalogApp{cfg: cfg, op: op, logger: &slogAdapter{l: sl}, logFile: logFile}

	if err := a.open(ctx, opts); err != nil {
		a.op.Fail()
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *CatalogApp) open(ctx context.Context, opts Options) error {
	var (
		enc catalog.Encryptor
		dec catalog.DecryptionContext
	)
	if a.cfg.Content.Encrypt {
		var err error
		enc, dec, err = unlock(a.cfg.Encryption, opts.Passphrase)
		if err != nil {
			return err
		}
	}

	store, err := content.NewContentStoreFromConfig(ctx, a.cfg.Content, enc, dec)
	if err != nil {
		return fmt.Errorf("creating content store: %w", err)
	}
	a.content = store

	statsStore, closeStats, err := stats.NewStatsStoreFromConfig(ctx, a.cfg.Stats)
	if err != nil {
		return fmt.Errorf("creating stats store: %w", err)
	}
	a.closeStat = closeStats

	ids := catalog.UUIDGenerator{}
	clock := catalog.RealClock{}
	analytics := catalog.NewAnalytics(statsStore, a.logger)
	a.catalog = catalog.NewCatalog(store, analytics, a.logger, clock, a.cfg.Content.SeedDemo)
	a.editor = catalog.NewEditor(a.catalog, ids, a.logger)
	a.sessions = catalog.NewSessions(ids, clock)
	a.catalog.OnReload(func(catalog.Tree) { a.sessions.DiscardEdits() })
	a.gate = catalog.NewGate(catalog.GateConfig{
		Secret:  a.cfg.Admin.ResolveSecret(),
		Key:     a.cfg.Admin.TriggerKey,
		Presses: a.cfg.Admin.TriggerPresses,
		Window:  time.Duration(a.cfg.Admin.TriggerWindowMS) * time.Millisecond,
	}, a.logger)

	t := a.catalog.Load(ctx)
	topics, lessons, parts := t.Count()
	a.logger.Info("content loaded", "store", a.cfg.Content.Type, "topics", topics, "lessons", lessons, "parts", parts)
	return nil
}

// unlock opens the content key with passphrase, falling back to
// $CATALOG_KEY_PASSPHRASE.
func unlock(cfg config.EncryptionConfig, passphrase string) (catalog.Encryptor, catalog.DecryptionContext, error) {
	enc, err := encryption.NewEncryptorFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if !enc.IsConfigured() {
		return nil, nil, fmt.Errorf("content is encrypted but no keys exist: run 'catalog keys init'")
	}
	if passphrase == "" {
		passphrase = os.Getenv(EnvKeyPassphrase)
	}
	if passphrase == "" {
		return nil, nil, fmt.Errorf("content is encrypted: set %s or enter the passphrase", EnvKeyPassphrase)
	}
	dec, err := enc.Unlock(passphrase)
	if err != nil {
		return nil, nil, fmt.Errorf("unlocking content key: %w", err)
	}
	return enc, dec, nil
}

// Catalog returns the loaded catalog.
func (a *CatalogApp) Catalog() *catalog.Catalog { return a.catalog }

// Editor returns the admin editor.
func (a *CatalogApp) Editor() *catalog.Editor { return a.editor }

// Logger returns the application logger.
func (a *CatalogApp) Logger() catalog.Logger { return a.logger }

// CheckAdminSecret verifies the shared admin secret, for CLI commands that
// change content.
func (a *CatalogApp) CheckAdminSecret(password string) error {
	if err := a.gate.CheckSecret(password); err != nil {
		a.logger.Warn("admin secret rejected", "operation", a.op.Name)
		return err
	}
	return nil
}

// Serve runs the HTTP server, and the content watcher when configured, until
// ctx is cancelled or one of them fails.
func (a *CatalogApp) Serve(ctx context.Context) error {
	srv := server.New(server.Config{
		Addr:         a.cfg.Server.Addr,
		AllowOrigins: a.cfg.Server.AllowOrigins,
		CookieName:   a.cfg.Server.CookieName,
		CookieSecure: a.cfg.Server.CookieSecure,
	}, server.Deps{
		Catalog:  a.catalog,
		Editor:   a.editor,
		Sessions: a.sessions,
		Gate:     a.gate,
		Logger:   a.logger,
	})

	var watcher *content.Watcher
	if a.content.WatchDir != "" {
		w, err := content.NewWatcher(a.content.WatchDir, a.content.WatchFile, a.reloadIfChanged, a.logger)
		if err != nil {
			a.op.Fail()
			return err
		}
		watcher = w
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	if watcher != nil {
		a.logger.Info("watching content", "dir", a.content.WatchDir, "file", a.content.WatchFile)
		g.Go(func() error { return watcher.Run(ctx) })
	}

	if err := g.Wait(); err != nil {
		a.op.Fail()
		return err
	}
	return nil
}

func (a *CatalogApp) reloadIfChanged(ctx context.Context) {
	if a.catalog.RefreshIfChanged(ctx) {
		a.logger.Info("content reloaded from disk")
	}
}

// ExportTree writes the current tree as JSON.
func (a *CatalogApp) ExportTree(w io.Writer) error {
	data, err := content.EncodeTree(a.catalog.Tree())
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// ImportTree replaces the whole stored tree with the JSON document read
// from r and returns the new tree.
func (a *CatalogApp) ImportTree(ctx context.Context, r io.Reader) (catalog.Tree, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}
	imported, err := content.DecodeTree(buf.Bytes())
	if err != nil {
		a.op.Fail()
		return nil, err
	}
	t, err := a.catalog.Mutate(ctx, func(catalog.Tree) (catalog.Tree, error) { return imported.Normalize(), nil })
	if err != nil {
		a.op.Fail()
		return nil, err
	}
	topics, lessons, parts := t.Count()
	a.logger.Info("content imported", "topics", topics, "lessons", lessons, "parts", parts)
	return t, nil
}

// Dashboard returns the statistics view.
func (a *CatalogApp) Dashboard(ctx context.Context) catalog.Dashboard {
	return catalog.BuildDashboard(a.catalog.Tree(), a.catalog.Analytics().Load(ctx))
}

// Fail marks the operation as failed in the closing log line.
func (a *CatalogApp) Fail() { a.op.Fail() }

// Close releases stores and the log file. It returns the first error.
func (a *CatalogApp) Close() error {
	var errs []error
	if a.content != nil {
		if err := a.content.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing content store: %w", err))
		}
	}
	if a.closeStat != nil {
		if err := a.closeStat(); err != nil {
			errs = append(errs, fmt.Errorf("closing stats store: %w", err))
		}
	}
	a.logger.Info("operation finished", "operation", a.op.Name, "status", a.op.Status,
		"duration_ms", time.Since(a.op.StartedAt).Milliseconds())
	if a.logFile != nil {
		a.logFile.Close()
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
