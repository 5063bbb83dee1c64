// Package cli implements the cobra-based CLI commands for itms-transporter.
//
// Each subcommand (providers, upload, verify, lookup, schema, status,
// status-all, version) is defined in its own file within this package. This
// file defines the root command that serves as the parent for all
// subcommands and handles global flags.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/itms-transporter/internal/command"
	"github.com/shinji-kodama/itms-transporter/internal/config"
	"github.com/shinji-kodama/itms-transporter/internal/model"
	"github.com/shinji-kodama/itms-transporter/internal/transporter"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// yamlOutput controls whether command output is formatted as YAML.
	// --json wins when both are given.
	yamlOutput bool

	// verbose enables debug logging, including the iTMSTransporter
	// command line (with the password masked).
	verbose bool

	// configFile is an explicit config file path (--config).
	configFile string
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// logger is the CLI logger. Its level is raised to debug by --verbose.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "itms-transporter",
})

// executorOverride replaces the process runner in tests.
var executorOverride command.Executor

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action: it only provides
// help text and global flags. Actual functionality is provided by
// the subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "itms-transporter",
		Short: "Drive Apple's iTMSTransporter from the command line",
		Long: `itms-transporter runs iTMSTransporter with validated options and reports
its results as text, JSON or YAML.

Credentials and defaults can be kept in a config file
(itms-transporter.{jsonc,json,yaml,yml}), in the environment
(ITMS_USERNAME, ITMS_PASSWORD, ITMS_SHORTNAME, ITMS_PATH) or in a .env file.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			} else {
				logger.SetLevel(log.InfoLevel)
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	pf.BoolVar(&yamlOutput, "yaml", false, "Output in YAML format")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pf.StringVar(&configFile, "config", "", "Config file (default: itms-transporter.{jsonc,json,yaml,yml})")
	pf.String("path", "", "Path to the iTMSTransporter executable")
	pf.StringP("username", "u", "", "Apple ID username")
	pf.StringP("password", "p", "", "Apple ID password (prefer ITMS_PASSWORD)")
	pf.Bool("print-stdout", false, "Echo iTMSTransporter standard output")
	pf.Bool("print-stderr", false, "Echo iTMSTransporter standard error")
	pf.Duration("timeout", 0, "Abort iTMSTransporter after this long (e.g. 30m)")

	rootCmd.AddCommand(NewProvidersCommand())
	rootCmd.AddCommand(NewUploadCommand())
	rootCmd.AddCommand(NewVerifyCommand())
	rootCmd.AddCommand(NewLookupCommand())
	rootCmd.AddCommand(NewSchemaCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewStatusAllCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// Errors are mapped to exit codes with model.ExitCodeFor: CLIError types
// carry their own code, transporter errors map by kind, anything else
// exits with 1. An interrupt (Ctrl-C) cancels the running operation.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		writeError(os.Stderr, err, jsonOutput)
		os.Exit(int(model.ExitCodeFor(err)))
	}
}

// newTransporter loads the configuration, applies command-line overrides
// and creates the client used by every subcommand.
func newTransporter(cmd *cobra.Command) (*transporter.Transporter, error) {
	cfg, path, err := config.Load(config.LoadOptions{ConfigFile: configFile})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to load configuration", err)
	}
	if path != "" {
		VerboseLog("Loaded configuration from %s", path)
	}

	if err := applyGlobalFlags(cmd, cfg); err != nil {
		return nil, err
	}

	itms := transporter.New(transporter.Options{
		Path:        cfg.Path,
		Defaults:    cfg.Values(),
		PrintStdout: cfg.PrintStdout,
		PrintStderr: cfg.PrintStderr,
		Stdout:      cmd.OutOrStdout(),
		Stderr:      cmd.ErrOrStderr(),
		Logger:      logger,
		Timeout:     cfg.Timeout,
		Executor:    executorOverride,
	})
	VerboseLog("Using %s (timeout: %s)", itms.Path(), formatDuration(cfg.Timeout))

	return itms, nil
}

// applyGlobalFlags overrides configuration values with explicitly set flags.
func applyGlobalFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	for flag, key := range map[string]string{"username": "username", "password": "password"} {
		if flags.Changed(flag) {
			v, err := flags.GetString(flag)
			if err != nil {
				return err
			}
			cfg.Defaults[key] = v
		}
	}

	if flags.Changed("path") {
		v, err := flags.GetString("path")
		if err != nil {
			return err
		}
		cfg.Path = v
	}
	if flags.Changed("print-stdout") {
		v, err := flags.GetBool("print-stdout")
		if err != nil {
			return err
		}
		cfg.PrintStdout = v
	}
	if flags.Changed("print-stderr") {
		v, err := flags.GetBool("print-stderr")
		if err != nil {
			return err
		}
		cfg.PrintStderr = v
	}
	if flags.Changed("timeout") {
		v, err := flags.GetDuration("timeout")
		if err != nil {
			return err
		}
		if v < 0 {
			return model.NewCLIError(model.ExitGeneralError, fmt.Sprintf("--timeout must not be negative, got %s", v))
		}
		cfg.Timeout = v
	}
	return nil
}

// writeError outputs an error in the appropriate format (JSON or text).
// Diagnostics carried by an ExecutionError are listed one per line in text
// mode and as a "messages" array in JSON mode.
func writeError(w io.Writer, err error, asJSON bool) {
	message, underlying := err.Error(), error(nil)
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		message, underlying = cliErr.Message, cliErr.Err
	}

	var execErr *model.ExecutionError
	isExec := errors.As(err, &execErr)
	if isExec {
		message = "iTMSTransporter failed"
		if execErr.ExitStatus != nil {
			message = fmt.Sprintf("iTMSTransporter failed with exit status %d", *execErr.ExitStatus)
		}
	}

	if asJSON {
		errObj := map[string]any{
			"message": message,
			"code":    int(model.ExitCodeFor(err)),
		}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		if isExec {
			errObj["messages"] = execErr.Messages
		}
		// Errors go to stderr even in JSON mode: stdout is reserved for
		// successful command output.
		_ = writeJSON(w, map[string]any{"error": errObj})
		return
	}

	if underlying != nil {
		_, _ = fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		_, _ = fmt.Fprintf(w, "Error: %s\n", message)
	}
	if isExec {
		for _, m := range execErr.Messages {
			_, _ = fmt.Fprintf(w, "  - %s\n", m)
		}
	}
}

// VerboseLog prints a debug message to stderr only when verbose mode is
// enabled.
func VerboseLog(format string, args ...any) {
	logger.Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}

// commandContext returns the command context, which Execute cancels on
// interrupt. The configured timeout is applied by the transporter.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// formatDuration renders a timeout for verbose logs.
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "none"
	}
	return d.String()
}
