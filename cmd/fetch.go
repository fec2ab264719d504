package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/config"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/tenant"
)

// FetchCommand creates the fetch command
func FetchCommand() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a tenant document from the API",
		ArgsUsage: "WEBSITE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "API base URL (overrides client.base_url)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the document as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			website := c.Args().First()
			if website == "" {
				return fmt.Errorf("website name is required")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			doc, err := fetchRemote(ctx, c, cfg, website)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(doc)
			}
			printDocumentSummary(doc)
			return nil
		},
	}
}

// fetchRemote loads website through a tenant cache backed by the API
// client, so empty and malformed bodies get the default document.
func fetchRemote(ctx context.Context, c *cli.Command, cfg *config.Config, website string) (*model.TenantDocument, error) {
	ts := tenant.NewStore(newClient(c, cfg))
	if err := ts.FetchTenantData(ctx, website); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", website, err)
	}
	return ts.Document(), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printDocumentSummary(doc *model.TenantDocument) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Website: %s", doc.WebsiteName)))
	if doc.Username != "" {
		fmt.Println(metaStyle.Render(fmt.Sprintf("owner: %s, theme: %d", doc.Username, doc.WebsiteLayout.CurrentTheme)))
	} else {
		fmt.Println(metaStyle.Render(fmt.Sprintf("theme: %d", doc.WebsiteLayout.CurrentTheme)))
	}

	pages := doc.PageComponents()
	slugs := make([]string, 0, len(pages))
	for slug := range pages {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	fmt.Println(headerStyle.Render(fmt.Sprintf("Pages (%d)", len(slugs))))
	if len(slugs) == 0 {
		fmt.Println(noDataStyle.Render("No pages"))
	}
	for _, slug := range slugs {
		names := make([]string, 0, len(pages[slug]))
		for _, inst := range pages[slug] {
			names = append(names, inst.ComponentName)
		}
		fmt.Printf("  %-20s %s\n", slug, strings.Join(names, ", "))
	}

	static, invalid := doc.DecodeStaticPages()
	if len(static) > 0 || len(invalid) > 0 {
		fmt.Println(headerStyle.Render(fmt.Sprintf("Static pages (%d)", len(static))))
		keys := make([]string, 0, len(static))
		for k := range static {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %-20s %d components\n", k, len(static[k].Components))
		}
		for _, k := range invalid {
			fmt.Printf("  %-20s %s\n", k, errorStyle.Render("unreadable"))
		}
	}

	if len(doc.ThemesBackup) > 0 {
		keys := make([]string, 0, len(doc.ThemesBackup))
		for k := range doc.ThemesBackup {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println(headerStyle.Render("Theme backups"))
		fmt.Printf("  %s\n", strings.Join(keys, ", "))
	}
}
