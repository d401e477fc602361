package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagrico/blog/views"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Sanity dataset is reachable and list its content",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		section(fmt.Sprintf("%s / %s", a.Config.Sanity.ProjectID, a.Config.Sanity.Dataset))
		info("Endpoint %s", a.Sanity.Endpoint())

		latest, err := a.Catalog.Ping(ctx)
		if err != nil {
			failure("Query failed: %v", err)
			return err
		}
		success("Connected, %d recent posts", len(latest))
		for _, p := range latest {
			muted("  %-10s %s  %s", p.Status, views.FormatDate(p.PublishedAt), p.Title)
		}

		cats, err := a.Catalog.Categories(ctx)
		if err != nil {
			return err
		}
		success("%d categories", len(cats))
		for _, c := range cats {
			muted("  %s (%s)", c.Title, c.Slug)
		}

		authors, err := a.Catalog.Authors(ctx)
		if err != nil {
			return err
		}
		success("%d authors", len(authors))
		for _, au := range authors {
			muted("  %s", au.Name)
		}

		if len(a.Catalog.AllPosts(ctx)) == 0 {
			warning("No published posts; pages will show the empty state")
		}
		return nil
	},
}

var slugsCmd = &cobra.Command{
	Use:   "slugs",
	Short: "Print every post slug, one per line",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		for _, slug := range a.Catalog.PostSlugs(cmd.Context()) {
			fmt.Println(slug)
		}
		return nil
	},
}
