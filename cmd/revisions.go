package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// RevisionsCommand creates the revisions command
func RevisionsCommand() *cli.Command {
	return &cli.Command{
		Name:      "revisions",
		Usage:     "List the saved revisions of a tenant website",
		ArgsUsage: "WEBSITE",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of revisions to list (0 for all)",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "show",
				Usage: "Print the document of a revision as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			if id := c.String("show"); id != "" {
				doc, err := st.RevisionDocument(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(doc)
			}

			website := c.Args().First()
			if website == "" {
				return fmt.Errorf("website name is required")
			}
			revs, err := st.Revisions(ctx, website, int(c.Int("limit")))
			if err != nil {
				return err
			}

			fmt.Println(titleStyle.Render(fmt.Sprintf("Revisions of %s", website)))
			if len(revs) == 0 {
				fmt.Println(noDataStyle.Render("No revisions"))
				return nil
			}
			for _, r := range revs {
				fmt.Printf("  %s  %-12s %10s  %s\n", r.ID, r.Username, formatBytes(int64(r.Size)),
					metaStyle.Render(formatTime(r.CreatedAt)))
			}
			return nil
		},
	}
}
