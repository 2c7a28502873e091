package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/updater"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/version"
)

// releaseChecker answers --check. Tests point it at a local server.
var releaseChecker = updater.Checker{}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the gv version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(stdout, "gv %s\n", version.Version)
			if !check {
				return nil
			}
			tag, url, err := releaseChecker.CheckForUpdates(cmd.Context())
			if err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}
			if tag == "" {
				fmt.Fprintln(stdout, "up to date")
				return nil
			}
			fmt.Fprintf(stdout, "update available: %s %s\n", tag, url)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "ask GitHub whether a newer release exists")
	return cmd
}
