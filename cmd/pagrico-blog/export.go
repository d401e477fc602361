package main

import (
	"time"

	"github.com/spf13/cobra"
)

var outDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a static copy of the site",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		start := time.Now()
		res, err := a.Export(cmd.Context(), outDir)
		if err != nil {
			return err
		}
		success("Exported %d pages to %s in %s", res.Pages, outDir, time.Since(start).Round(time.Millisecond))
		for _, slug := range res.Skipped {
			warning("Skipped %s", slug)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&outDir, "out", "o", "dist", "output directory")
}
