package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/export"
)

func newPreviewCmd(o *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	var (
		port      int
		noBrowser bool
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve the exported chart on localhost",
		Long: `preview writes an HTML page with the SVG chart to a temporary directory
and serves it on localhost until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := o.open(stderr, false)
			if err != nil {
				return err
			}
			defer s.Close()

			scene, err := pixelScene(s.cfg, s.tasks)
			if err != nil {
				return err
			}
			dir, err := os.MkdirTemp("", "gv-preview-*")
			if err != nil {
				return fmt.Errorf("create preview dir: %w", err)
			}
			defer os.RemoveAll(dir)
			if err := export.WriteBundle(dir, scene, export.StyleFromConfig(s.cfg)); err != nil {
				return err
			}

			if !cmd.Flags().Changed("port") {
				port = s.cfg.Export.PreviewPort
			}
			fmt.Fprintln(stdout, "Serving chart preview (Ctrl+C to stop)")
			return export.StartPreview(cmd.Context(), export.PreviewConfig{
				BundlePath:  dir,
				Port:        port,
				OpenBrowser: !noBrowser,
				Logger:      s.logger,
			})
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (0 picks a free one)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "do not open a browser")
	return cmd
}
