package main

import (
	"context"
	"log"
	"os"

	"github.com/tarekmohameddev/taearifv3-sub012/cmd"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/config"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "taearif",
		Usage: "Multi-tenant website builder backend and editing tools",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.ServeCommand(),
			cmd.FetchCommand(),
			cmd.RenderCommand(),
			cmd.ApplyCommand(),
			cmd.ImportCommand(),
			cmd.RevisionsCommand(),
			cmd.TokenCommand(),
			cmd.StatsCommand(),
			cmd.OptimizeCommand(),
			cmd.MigrateCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		log.Fatalf("Failed to get default config path: %v", err)
	}
	return path
}
