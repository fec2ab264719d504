package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/identity"
)

// TokenCommand creates the token command
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:      "token",
		Usage:     "Issue an editor token signed with server.jwt_secret",
		ArgsUsage: "USERNAME",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "tenant-id",
				Usage: "Tenant id claim",
			},
			&cli.StringFlag{
				Name:  "website",
				Usage: "Website name claim (defaults to the username)",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Token lifetime",
				Value: 0,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			username := c.Args().First()
			if username == "" {
				return fmt.Errorf("username is required")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.Server.JWTSecret == "" {
				return fmt.Errorf("server.jwt_secret is not set in %s", c.String("config"))
			}
			issuer, err := identity.NewIssuer(cfg.Server.JWTSecret, c.Duration("ttl"))
			if err != nil {
				return err
			}
			tok, err := issuer.Issue(identity.Identity{
				Username:    username,
				TenantID:    c.String("tenant-id"),
				WebsiteName: c.String("website"),
			})
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
}
