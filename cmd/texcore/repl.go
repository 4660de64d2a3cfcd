package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dshills/texcore/internal/app"
)

const historyFile = ".texcore_history"

const replHelp = `REPL commands:
  :typeset  Show the material typeset so far
  :groups   Show the open groups
  :quit     Exit the REPL
`

func newReplCmd(opts *app.Options) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interpret input interactively",
		Long: `Read input line by line and interpret it in one context. Groups stay open
across lines. Ctrl+C cancels input, Ctrl+D exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := *opts
			o.Watch = watch
			rt, err := newRuntime(cmd, o, "scrollmode")
			if err != nil {
				return err
			}
			defer rt.Close()
			return repl(cmd.OutOrStdout(), cmd.ErrOrStderr(), rt)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the configuration file when it changes")
	return cmd
}

// prompt shows the group level when groups are open.
func prompt(rt *app.Runtime) string {
	if level := rt.Context().GroupLevel(); level > 0 {
		return fmt.Sprintf("*%d ", level)
	}
	return "* "
}

func repl(out, errOut io.Writer, rt *app.Runtime) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(out, titleStyle.Render("texcore "+version)+dimStyle.Render("  :quit to exit"))
	for {
		line, err := ln.Prompt(prompt(rt))
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if cmd := strings.TrimSpace(line); strings.HasPrefix(cmd, ":") {
			switch cmd {
			case ":quit":
				return nil
			case ":typeset":
				fmt.Fprintln(out, rt.Typeset())
			case ":groups":
				fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("level %d %v", rt.Context().GroupLevel(), rt.Context().GroupTypes())))
			default:
				fmt.Fprint(out, replHelp)
			}
			continue
		}

		if err := rt.RunString("<repl>", line); err != nil {
			printRunError(errOut, rt, err)
		}
	}
}
