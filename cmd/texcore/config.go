package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/texcore/internal/app"
	"github.com/dshills/texcore/internal/dispatcher/primitives"
)

func newConfigCmd(opts *app.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration files",
	}
	cmd.AddCommand(newConfigCheckCmd(opts))
	return cmd
}

func newConfigCheckCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Load a configuration and report what it declares",
		Long: `Load a configuration file the way a run does: parse it, construct its named
registers and run its loaders. The file defaults to --config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := *opts
			if len(args) == 1 {
				o.ConfigPath = args[0]
			}
			if o.ConfigPath == "" {
				return fmt.Errorf("no configuration file given")
			}

			rt, err := newRuntime(cmd, o, "")
			if err != nil {
				return err
			}
			defer rt.Close()

			named, err := primitives.LoadNamedRegisters(rt.Config())
			if err != nil {
				return err
			}
			var loaders []string
			for _, l := range rt.Loaders() {
				loaders = append(loaders, l.Name())
			}

			lines := []string{
				successStyle.Render("ok ") + o.ConfigPath,
				titleStyle.Render("sections") + " " + strings.Join(rt.Config().Sections(), ", "),
				titleStyle.Render("registers") + " " + strings.Join(named.Names(), ", "),
				titleStyle.Render("loaders") + " " + strings.Join(loaders, ", "),
				dimStyle.Render(fmt.Sprintf("%d primitives", rt.Dispatcher().Registry().Count())),
			}
			fmt.Fprintln(cmd.OutOrStdout(), boxStyle.Render(strings.Join(lines, "\n")))
			return nil
		},
	}
}
