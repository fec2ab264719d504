package integration_tests

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/tarekmohameddev/taearifv3-sub012/cmd"
)

// writeTestConfig writes a config that stores documents in dir.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`
storage_dir = '%s'

[server]
listen = '127.0.0.1:0'
jwt_secret = 'integration-secret'

[client]
timeout = '5s'
`, dir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// runCLI runs the command line the way main does, against configPath.
func runCLI(t *testing.T, configPath string, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name: "taearif",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug"},
			&cli.StringFlag{Name: "config", Value: configPath},
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.ImportCommand(),
			cmd.RevisionsCommand(),
			cmd.RenderCommand(),
			cmd.StatsCommand(),
			cmd.OptimizeCommand(),
			cmd.MigrateCommand(),
			cmd.TokenCommand(),
		},
	}
	return app.Run(context.Background(), append([]string{"taearif"}, args...))
}

const acmeYAML = `
username: acme
websiteName: acme
WebsiteLayout:
  currentTheme: 1
  metaTags:
    homepage:
      title: Acme Homes
pages:
  homepage:
    - id: h1
      type: hero
      componentName: hero2
      position: 0
      data:
        title: Find your home
    - id: c1
      type: contactForm
      componentName: contactForm1
      position: 1
      data: {}
globalComponentsData:
  header:
    variant: header1
    logo:
      text: Acme
`

func writeDocument(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	return path
}
