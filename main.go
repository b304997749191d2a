// main.go
package main

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sheeppyYU/PasswordManagerNew/pkg/logger"
)

const appVersion = "1.0.0"

const masterSecretEnv = "PWVAULT_MASTER"

// App bundles the wired-up components behind every command.
type App struct {
	cfg      *Config
	db       *sql.DB
	log      *logger.Logger
	store    *Store
	registry *Registry
	secrets  *SecretStore
	codec    *Codec
	merger   *Merger
}

var app *App

var (
	dataDirFlag string
	masterFlag  string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:     "pwvault",
	Short:   "pwvault - an offline password vault with encrypted backups",
	Version: appVersion,
	Long: `pwvault keeps your credentials in a local SQLite vault, organized into
built-in and custom categories, and exports them as encrypted zip backups
that can be restored on any machine.

Usage:
  pwvault <command> [flags]

Run 'pwvault help <command>' for details on a specific command.
`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil && app.db != nil {
			app.db.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.pwvault)")
	rootCmd.PersistentFlags().StringVar(&masterFlag, "master", "", "master secret ("+masterSecretEnv+" env var also works)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every step")
}

// initApp opens the database and wires the components. It runs before every
// command so each invocation sees a consistent, freshly loaded state.
func initApp(cmd *cobra.Command, args []string) error {
	if !verbose {
		log.SetOutput(io.Discard)
	}

	dir := dataDirFlag
	if dir == "" {
		var err error
		dir, err = defaultConfigDir()
		if err != nil {
			return err
		}
	} else if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}

	db, err := openDB(cfg.Database.Path)
	if err != nil {
		return err
	}

	appLog := logger.NewLogger("pwvault")
	store, err := NewStore(db, appLog)
	if err != nil {
		db.Close()
		return err
	}
	registry, err := NewRegistry(db, appLog)
	if err != nil {
		db.Close()
		return err
	}

	secrets := NewSecretStore(db)
	cipher := NewCipher(cfg.Backup.Iterations)

	app = &App{
		cfg:      cfg,
		db:       db,
		log:      appLog,
		store:    store,
		registry: registry,
		secrets:  secrets,
		codec:    NewCodec(store, registry, cipher, secrets, cfg.AppVersion, appLog),
		merger:   NewMerger(store, registry, cipher, appLog),
	}
	return nil
}

// masterSecret resolves the master secret from the --master flag or the
// environment. Nothing here prompts; commands that need the secret fail fast
// when it is absent.
func masterSecret() SecretSource {
	if masterFlag != "" {
		return StaticSecret(masterFlag)
	}
	if env := os.Getenv(masterSecretEnv); env != "" {
		return StaticSecret(env)
	}
	return StaticSecret("")
}

// startSpinner shows a progress spinner for the slower commands. The
// returned cleanup stops it and prints the final message.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	if err := s.Color("cyan"); err != nil {
		app.log.Warning("Failed to set spinner color: %v", err)
	}
	if !verbose {
		s.Start()
	}
	cleanup := func() {
		final := s.FinalMSG
		s.FinalMSG = ""
		s.Stop()
		if final != "" {
			if !strings.HasSuffix(final, "\n") {
				final += "\n"
			}
			fmt.Print(final)
		}
	}
	return s, cleanup
}

func successMsg(msg string) string {
	return color.GreenString("✓") + " " + msg
}

func failureMsg(msg string) string {
	return color.RedString("✗") + " " + msg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failureMsg(err.Error()))
		os.Exit(1)
	}
}
