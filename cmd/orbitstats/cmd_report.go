// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/orbitstats/internal/report"
)

var (
	reportWidth int
	reportStyle string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the latest combined results",
	RunE: func(_ *cobra.Command, _ []string) error {
		dir := cfg.Output.ResultsPath()
		results, err := report.LoadLatest(dir)
		if err != nil {
			return err
		}
		return report.Render(stdout, results, dir, report.RenderOptions{
			Width: reportWidth,
			Style: reportStyle,
		})
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportWidth, "width", 0, "Word wrap width (default 100)")
	reportCmd.Flags().StringVar(&reportStyle, "style", "", "Glamour style: dark, light, notty or a JSON style file")
}
