package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/editor"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/identity"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/reconciler"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/tenant"
)

// EditScript is a list of editor operations applied to one website.
type EditScript struct {
	Website string   `yaml:"website"`
	Ops     []EditOp `yaml:"ops"`
}

// EditOp is one editor operation. Op selects which of the other fields
// are read.
type EditOp struct {
	Op        string                   `yaml:"op"`
	Page      string                   `yaml:"page,omitempty"`
	ID        string                   `yaml:"id,omitempty"`
	IDs       []string                 `yaml:"ids,omitempty"`
	Position  *int                     `yaml:"position,omitempty"`
	Component *model.ComponentInstance `yaml:"component,omitempty"`
	Slot      string                   `yaml:"slot,omitempty"`
	Data      map[string]any           `yaml:"data,omitempty"`
	Variant   string                   `yaml:"variant,omitempty"`
	Static    *model.StaticPage        `yaml:"static,omitempty"`
	Slug      string                   `yaml:"slug,omitempty"`
	Theme     int                      `yaml:"theme,omitempty"`
	Layout    *model.WebsiteLayout     `yaml:"layout,omitempty"`
}

// ApplyCommand creates the apply command
func ApplyCommand() *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Apply a YAML edit script to a tenant website and save it",
		ArgsUsage: "SCRIPT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "API base URL (overrides client.base_url)",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "Editor token (overrides client.token)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the save payload instead of submitting it",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("script file is required")
			}
			script, err := loadEditScript(path)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			api := newClient(c, cfg)
			return runApply(ctx, script, api, api, authToken(c, cfg), c.Bool("dry-run"), os.Stdout)
		},
	}
}

func loadEditScript(path string) (EditScript, error) {
	var s EditScript
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading script: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing script %s: %w", path, err)
	}
	if len(s.Ops) == 0 {
		return s, fmt.Errorf("script %s has no ops", path)
	}
	return s, nil
}

// runApply fetches the website, replays the script on an editor hydrated
// from it and saves the result through the reconciler.
func runApply(ctx context.Context, script EditScript, fetcher tenant.Fetcher, sub reconciler.Submitter, token string, dryRun bool, out io.Writer) error {
	actor, err := identity.FromToken(token)
	if err != nil && !dryRun {
		return fmt.Errorf("editor token: %w", err)
	}
	website := script.Website
	if website == "" {
		website = actor.TenantKey()
	}
	if website == "" {
		return fmt.Errorf("script has no website and the token names none")
	}
	if actor.WebsiteName == "" {
		actor.WebsiteName = website
	}

	ts := tenant.NewStore(fetcher)
	base := model.DefaultDocument(website)
	switch err := ts.FetchTenantData(ctx, website); {
	case err == nil:
		base = ts.Document()
	case errors.Is(err, model.ErrTenantNotFound):
		fmt.Fprintln(out, metaStyle.Render(fmt.Sprintf("%s does not exist yet, starting from an empty website", website)))
	default:
		return fmt.Errorf("fetching %s: %w", website, err)
	}

	ed := editor.New()
	ed.Hydrate(base)
	for i, op := range script.Ops {
		if err := applyOp(ed, op); err != nil {
			return fmt.Errorf("op %d (%s): %w", i+1, op.Op, err)
		}
	}

	if dryRun {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ed.BuildSavePayload(actor))
	}

	r := reconciler.New(ed, ts, identity.Static(actor), sub, writerNotifier{out})
	payload, err := r.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d ops applied to %s (%d pages)\n", len(script.Ops), payload.WebsiteName, len(payload.Pages))
	return nil
}

func applyOp(ed *editor.Store, op EditOp) error {
	switch op.Op {
	case "upsert":
		if op.Component == nil {
			return fmt.Errorf("component is required")
		}
		var opts []editor.UpsertOption
		if op.Position != nil {
			opts = append(opts, editor.WithPosition(*op.Position))
		}
		_, err := ed.UpsertComponent(op.Page, *op.Component, opts...)
		return err
	case "remove":
		if !ed.RemoveComponent(op.Page, op.ID) {
			return fmt.Errorf("%s on %s: %w", op.ID, op.Page, editor.ErrUnknownComponent)
		}
		return nil
	case "reorder":
		return ed.Reorder(op.Page, op.IDs)
	case "removePage":
		ed.RemovePage(op.Page)
		return nil
	case "global":
		if op.Data != nil {
			if err := ed.SetGlobalComponentData(op.Slot, op.Data); err != nil {
				return err
			}
		}
		if op.Variant != "" {
			return ed.SetGlobalVariant(op.Slot, op.Variant)
		}
		return nil
	case "static":
		if op.Static == nil {
			return fmt.Errorf("static is required")
		}
		return ed.SetStaticPage(*op.Static)
	case "removeStatic":
		ed.RemoveStaticPage(op.Slug)
		return nil
	case "theme":
		if op.Theme < 1 {
			return fmt.Errorf("invalid theme %d", op.Theme)
		}
		ed.SwitchTheme(op.Theme)
		return nil
	case "layout":
		if op.Layout == nil {
			return fmt.Errorf("layout is required")
		}
		return ed.SetWebsiteLayout(*op.Layout)
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
}

type writerNotifier struct {
	w io.Writer
}

func (n writerNotifier) Success(msg string) {
	fmt.Fprintln(n.w, successStyle.Render(msg))
}

func (n writerNotifier) Failure(msg string) {
	fmt.Fprintln(n.w, errorStyle.Render(msg))
}
