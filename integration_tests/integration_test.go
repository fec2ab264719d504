package integration_tests

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/db"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/storage"
)

func TestImportThenInspect(t *testing.T) {
	tempDir := t.TempDir()
	configPath := writeTestConfig(t, tempDir)
	docPath := writeDocument(t, tempDir, "acme.yaml", acmeYAML)

	if err := runCLI(t, configPath, "import", docPath); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	// A second import is a new revision of the same website.
	if err := runCLI(t, configPath, "import", docPath); err != nil {
		t.Fatalf("second import failed: %v", err)
	}

	for _, args := range [][]string{
		{"revisions", "acme"},
		{"stats"},
		{"optimize"},
		{"render", "acme", "homepage"},
		{"render", "--html", "acme", "homepage"},
		{"migrate", "--status"},
	} {
		if err := runCLI(t, configPath, args...); err != nil {
			t.Errorf("%v failed: %v", args, err)
		}
	}

	st, err := storage.OpenDir(tempDir)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	doc, err := st.Load(context.Background(), "acme")
	if err != nil {
		t.Fatalf("imported document missing: %v", err)
	}
	if got := len(doc.Pages["homepage"]); got != 2 {
		t.Errorf("expected 2 homepage components, got %d", got)
	}
	if doc.GlobalComponentsData.Header["variant"] != "header1" {
		t.Errorf("header = %v", doc.GlobalComponentsData.Header)
	}

	revs, err := st.Revisions(context.Background(), "acme", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(revs) != 2 {
		t.Errorf("expected 2 revisions, got %d", len(revs))
	}
}

func TestImportRequiresWebsiteName(t *testing.T) {
	tempDir := t.TempDir()
	configPath := writeTestConfig(t, tempDir)
	docPath := writeDocument(t, tempDir, "anon.json", `{"pages": {}}`)

	if err := runCLI(t, configPath, "import", docPath); err == nil {
		t.Fatal("expected import of a document without a name to fail")
	}
	if err := runCLI(t, configPath, "import", "--website", "named", docPath); err != nil {
		t.Fatalf("import with --website failed: %v", err)
	}
}

func TestRenderUnknownWebsiteFails(t *testing.T) {
	tempDir := t.TempDir()
	configPath := writeTestConfig(t, tempDir)

	if err := runCLI(t, configPath, "render", "nobody", "homepage"); err == nil {
		t.Fatal("expected render of an unknown website to fail")
	}
}

func TestMigrateLeavesStoreCurrent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := writeTestConfig(t, tempDir)

	if err := runCLI(t, configPath, "migrate"); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	st, err := storage.Open(filepath.Join(tempDir, storage.DatabaseFile))
	if err != nil {
		t.Fatalf("store did not open after migrate: %v", err)
	}
	defer st.Close()

	status, err := db.NewMigrationManager(st.DB()).Status()
	if err != nil {
		t.Fatal(err)
	}
	if len(status.Pending) != 0 {
		t.Errorf("expected no pending migrations, got %d", len(status.Pending))
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	tempDir := t.TempDir()
	configPath := writeTestConfig(t, tempDir)

	if err := runCLI(t, configPath, "token", "acme"); err != nil {
		t.Fatalf("token failed: %v", err)
	}
	if err := runCLI(t, configPath, "token"); err == nil {
		t.Fatal("expected token without a username to fail")
	}
}
