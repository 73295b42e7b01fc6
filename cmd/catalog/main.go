package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"catalog-go/internal/app"
	"catalog-go/internal/config"
	"catalog-go/internal/encryption"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a CatalogApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Serve", "DeleteTopic").
func newApp(ctx context.Context, operation string, verbose bool) (*app.CatalogApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	opts := app.Options{Operation: operation, Verbose: verbose}
	if cfg.Content.Encrypt && os.Getenv(app.EnvKeyPassphrase) == "" && isTerminal() {
		if opts.Passphrase, err = readSecret("Key passphrase: "); err != nil {
			return nil, err
		}
	}

	a, err := app.NewCatalogApp(ctx, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// newAdminApp is newApp for commands that change content: the admin secret
// must be entered first.
func newAdminApp(ctx context.Context, operation string) (*app.CatalogApp, error) {
	a, err := newApp(ctx, operation, false)
	if err != nil {
		return nil, err
	}
	secret, err := readSecret("Admin secret: ")
	if err == nil {
		err = a.CheckAdminSecret(secret)
	}
	if err != nil {
		a.Fail()
		a.Close()
		return nil, err
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "catalog",
	Short:        "E-learning catalog server",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults.BaseDir)
		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Base Dir: %s\n", defaults.BaseDir)
		fmt.Printf("Set $%s or admin.secret before serving.\n", cfg.Admin.SecretEnv)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults.ConfigPath)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:  %s\n", cfg.LogDir)
		fmt.Printf("Content:  %s (encrypt: %t, watch: %t)\n", cfg.Content.Type, cfg.Content.Encrypt, cfg.Content.Watch)
		fmt.Printf("Stats:    %s\n", cfg.Stats.Type)
		fmt.Printf("Listen:   %s\n", cfg.Server.Addr)
		fmt.Printf("Trigger:  %d x %q within %dms\n", cfg.Admin.TriggerPresses, cfg.Admin.TriggerKey, cfg.Admin.TriggerWindowMS)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage content encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the content key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg, err := config.ReadFromFile(defaults.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if enc.IsConfigured() && !force {
			return fmt.Errorf("keys already exist at %s (use --force to replace them)", cfg.Encryption.PrivateKeyPath)
		}

		pass, err := readSecret("New passphrase: ")
		if err != nil {
			return err
		}
		again, err := readSecret("Repeat passphrase: ")
		if err != nil {
			return err
		}
		if pass != again {
			return fmt.Errorf("passphrases do not match")
		}
		if err := enc.Setup(pass); err != nil {
			return fmt.Errorf("creating keys: %w", err)
		}

		fmt.Printf("Keys written to %s\n", cfg.Encryption.PublicKeyPath)
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, "Serve", verbose)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Serve(ctx)
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Visit and click statistics",
}

var statsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show visit and click statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "Stats", false)
		if err != nil {
			return err
		}
		defer a.Close()

		printDashboard(os.Stdout, a.Dashboard(ctx))
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)
	keysInitCmd.Flags().Bool("force", false, "Replace existing keys")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolP("verbose", "v", false, "Log debug output")
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsShowCmd)
	rootCmd.AddCommand(contentCmd)
}
