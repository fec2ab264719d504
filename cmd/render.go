package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/catalog"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/config"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/render"
)

// RenderCommand creates the render command
func RenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Resolve and render a page of a tenant website",
		ArgsUsage: "WEBSITE SLUG",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "remote",
				Usage: "Fetch the document from the API instead of the local store",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "API base URL for --remote (overrides client.base_url)",
			},
			&cli.BoolFlag{
				Name:  "html",
				Usage: "Print the rendered HTML",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the resolved component descriptors as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() < 2 {
				return fmt.Errorf("website name and page slug are required")
			}
			website, slug := c.Args().Get(0), c.Args().Get(1)

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			doc, err := loadDocument(ctx, c, cfg, website)
			if err != nil {
				return err
			}

			svc := render.NewService(render.NewRenderer(catalog.Default(), render.StaticDocument{Doc: doc}), nil)
			switch {
			case c.Bool("html"):
				fmt.Println(svc.RenderPageHTML(slug))
				return nil
			case c.Bool("json"):
				return printJSON(svc.Renderer().RenderPage(slug))
			}
			printPage(website, slug, svc.Renderer())
			return nil
		},
	}
}

// loadDocument reads website from the local store, or from the API when
// --remote is set.
func loadDocument(ctx context.Context, c *cli.Command, cfg *config.Config, website string) (*model.TenantDocument, error) {
	if c.Bool("remote") {
		return fetchRemote(ctx, c, cfg, website)
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer closeStore(st)
	return st.Load(ctx, website)
}

func printPage(website, slug string, r *render.Renderer) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s / %s", website, slug)))

	if h, err := r.RenderGlobal("header"); err == nil {
		printDescriptor("header", h)
	}
	descriptors := r.RenderPage(slug)
	if len(descriptors) == 0 {
		fmt.Println(noDataStyle.Render("No visible components on this page"))
	}
	for _, d := range descriptors {
		printDescriptor(fmt.Sprintf("#%d", d.Position), d)
	}
	if f, err := r.RenderGlobal("footer"); err == nil {
		printDescriptor("footer", f)
	}
}

func printDescriptor(label string, d render.Descriptor) {
	body := fmt.Sprintf("%s %s\n%s", label, d.DisplayName,
		metaStyle.Render(fmt.Sprintf("%s (variant %d) id=%s, %d props", d.ComponentName, d.Variant, d.ID, len(d.Props))))
	if d.Fallback {
		body += "\n" + errorStyle.Render(fmt.Sprintf("unresolved: %s", d.Unresolved))
		fmt.Println(fallbackStyle.Render(body))
		return
	}
	fmt.Println(componentStyle.Render(body))
}
