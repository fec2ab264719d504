package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/storage"
)

// ImportCommand creates the import command
func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import tenant documents from YAML or JSON files",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "website",
				Usage: "Store the document under this website name (single file only)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			files := c.Args().Slice()
			if len(files) == 0 {
				return fmt.Errorf("at least one file is required")
			}
			website := c.String("website")
			if website != "" && len(files) > 1 {
				return fmt.Errorf("--website can only be used with a single file")
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			for _, f := range files {
				if err := importFile(ctx, st, f, website); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func importFile(ctx context.Context, st *storage.Store, path, website string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	if website != "" {
		doc.WebsiteName = website
	}
	if doc.WebsiteName == "" {
		doc.WebsiteName = doc.Username
	}
	if doc.WebsiteName == "" {
		return fmt.Errorf("%s: document has neither websiteName nor username", filepath.Base(path))
	}
	rev, err := st.Put(ctx, doc)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s -> %s (revision %s, %s)\n",
		successStyle.Render("imported"), filepath.Base(path), doc.WebsiteName, rev.ID, formatBytes(int64(rev.Size)))
	return nil
}

// decodeDocument accepts YAML or JSON. YAML is normalized to JSON first
// so the document goes through the same parser as fetched bodies.
func decodeDocument(data []byte) (*model.TenantDocument, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	body, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	doc, err := model.ParseDocument(body)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("empty document")
	}
	return doc, nil
}
