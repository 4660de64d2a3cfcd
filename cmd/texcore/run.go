package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/texcore/internal/app"
)

func newRunCmd(opts *app.Options) *cobra.Command {
	var interaction string
	var summary bool

	cmd := &cobra.Command{
		Use:   "run <file>...",
		Short: "Interpret input files",
		Long: `Interpret input files in order, sharing one context. A file stops at the
first error in errorstopmode; other interaction modes report the error and
continue.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, *opts, interaction)
			if err != nil {
				return err
			}
			defer rt.Close()

			for _, path := range args {
				if err := rt.RunFile(path); err != nil {
					printRunError(cmd.ErrOrStderr(), rt, err)
					return errReported
				}
			}
			if summary {
				printSummary(cmd.OutOrStdout(), rt)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&interaction, "interaction", "i", "", "Interaction mode (batchmode, nonstopmode, scrollmode, errorstopmode)")
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "Print the typeset material and metrics after the run")
	return cmd
}
