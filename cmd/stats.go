package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show document store statistics",
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

			stats, err := st.Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to get stats: %w", err)
			}
			names, err := st.WebsiteNames(ctx)
			if err != nil {
				return err
			}

			fmt.Println(titleStyle.Render("Document store"))
			fmt.Printf("  Websites:  %s\n", formatNumber(stats.Documents))
			fmt.Printf("  Revisions: %s\n", formatNumber(stats.Revisions))
			fmt.Printf("  Stored:    %s (compressed)\n", formatBytes(stats.Bytes))
			fmt.Println(metaStyle.Render(cfg.StorageDir))

			if len(names) > 0 {
				fmt.Println(headerStyle.Render("Websites"))
				for _, n := range names {
					fmt.Printf("  %s\n", n)
				}
			}
			return nil
		},
	}
}
