package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
)

// OptimizeCommand creates the optimize command
func OptimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Run database maintenance on the document store",
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

			start := time.Now()
			if err := st.Optimize(ctx); err != nil {
				return err
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("Optimized in %s", time.Since(start).Round(time.Millisecond))))
			return nil
		},
	}
}
