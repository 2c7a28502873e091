package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/config"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/export"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gantt_viewer/pkg/model"
)

// pixelScene lays the tasks out in export units, measuring labels with the
// same font the PNG renderer draws.
func pixelScene(cfg config.Config, tasks []model.Task) (layout.Scene, error) {
	measure, err := layout.NewFaceMeasurer(cfg.Chart.FontSize)
	if err != nil {
		return layout.Scene{}, err
	}
	opts := cfg.LayoutOptions()
	opts.Now = now()
	return layout.Build(tasks, opts, measure), nil
}

func newExportCmd(o *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the chart to SVG and/or PNG files",
		Example: `  gv export --out plan.svg
  gv export --tasks roadmap.yaml --granularity week --out roadmap.svg,roadmap.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := o.open(stderr, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if out == "" {
				out = s.cfg.Export.Path
			}
			paths := export.SplitPaths(out)
			scene, err := pixelScene(s.cfg, s.tasks)
			if err != nil {
				return err
			}
			if err := export.SaveAll(cmd.Context(), paths, scene, export.StyleFromConfig(s.cfg), s.logger); err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(stdout, p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "comma separated output files; the extension picks the format (default export.path)")
	return cmd
}
