// Package main is the entry point for the texcore interpreter.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/texcore/internal/app"
	"github.com/dshills/texcore/internal/state"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errReported marks a failure whose diagnostics were already printed.
var errReported = errors.New("reported")

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := app.LoadOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		return 1
	}

	root := newRootCmd(&opts)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		}
		return 1
	}
	return 0
}

// newRootCmd builds the command tree. Flags default to the values read
// from the environment.
func newRootCmd(opts *app.Options) *cobra.Command {
	root := &cobra.Command{
		Use:   "texcore",
		Short: "TeX-style macro interpreter core",
		Long: `texcore interprets TeX-style input against scoped registers.

Primitives come from the built-in set, from named registers declared in the
configuration file and from Lua loaders.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("texcore %s (commit: %s, built: %s)\n", version, commit, date))

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", opts.ConfigPath, "Path to configuration file (TOML or YAML)")
	flags.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error)")
	flags.IntVar(&opts.MaxErrors, "max-errors", opts.MaxErrors, "Stop after this many recovered errors")
	flags.StringVar(&opts.Locale, "locale", opts.Locale, "Language of error messages")
	flags.BoolVar(&opts.Metrics, "metrics", opts.Metrics, "Collect and report dispatch metrics")
	flags.StringSliceVar(&opts.Deny, "deny", opts.Deny, "Primitives that may not be executed")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch opts.LogLevel {
		case "debug", "info", "warn", "error":
			return nil
		default:
			return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
		}
	}

	root.AddCommand(newRunCmd(opts), newReplCmd(opts), newConfigCmd(opts))
	return root
}

// newRuntime creates a runtime writing to the command's streams.
func newRuntime(cmd *cobra.Command, opts app.Options, interaction string) (*app.Runtime, error) {
	opts.Out = cmd.OutOrStdout()
	opts.Log = cmd.ErrOrStderr()
	rt, err := app.New(opts)
	if err != nil {
		return nil, err
	}
	if interaction != "" {
		mode, err := state.ParseInteraction(interaction)
		if err == nil {
			err = rt.Context().SetInteraction(mode, true)
		}
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
	}
	return rt, nil
}
