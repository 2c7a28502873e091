package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/ui"
)

const defaultPrintWidth = 120

// terminalInfo reports the width of w and whether it is a terminal.
func terminalInfo(w io.Writer) (width int, tty bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultPrintWidth, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultPrintWidth, true
	}
	return width, true
}

func newPrintCmd(o *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	var (
		width int
		color bool
	)
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the chart once without the interactive screen",
		Long: `print renders every row of the chart to stdout. Colours are used when
stdout is a terminal unless --color=false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := o.open(stderr, false)
			if err != nil {
				return err
			}
			defer s.Close()

			termWidth, tty := terminalInfo(stdout)
			if !cmd.Flags().Changed("width") {
				width = termWidth
			}
			if !cmd.Flags().Changed("color") {
				color = tty
			}
			out := ui.Print(s.tasks, ui.PrintOptions{
				Config: s.cfg,
				Width:  width,
				Now:    now(),
				Color:  color,
			})
			_, err = fmt.Fprintln(stdout, out)
			return err
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", defaultPrintWidth, "output width in columns (default: terminal width)")
	cmd.Flags().BoolVar(&color, "color", false, "style the output (default: when stdout is a terminal)")
	return cmd
}
