package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/api"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/client"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/identity"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/storage"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/tenant"
)

type recordingSubmitter struct {
	calls   int
	token   string
	payload model.SavePayload
	err     error
}

func (r *recordingSubmitter) SavePages(_ context.Context, token string, p model.SavePayload) error {
	r.calls++
	r.token = token
	r.payload = p
	return r.err
}

func acmeFetcher() tenant.Fetcher {
	return tenant.FetcherFunc(func(_ context.Context, websiteName string) (*model.TenantDocument, error) {
		doc := model.DefaultDocument(websiteName)
		doc.Username = "acme"
		doc.Pages["homepage"] = []model.ComponentInstance{
			{ID: "h1", Type: "hero", ComponentName: "hero1", Data: map[string]any{"title": "Old"}, Position: 0},
		}
		doc.Pages["old"] = []model.ComponentInstance{
			{ID: "o1", Type: "text", ComponentName: "text1", Position: 0},
		}
		return doc, nil
	})
}

func issueToken(t *testing.T, secret string, id identity.Identity) string {
	t.Helper()
	issuer, err := identity.NewIssuer(secret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	tok, err := issuer.Issue(id)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edits.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleScript = `
website: acme
ops:
  - op: upsert
    page: homepage
    position: 0
    component:
      id: h2
      componentName: contactForm2
      data:
        title: Contact us
  - op: reorder
    page: homepage
    ids: [h2, h1]
  - op: global
    slot: header
    data:
      logo: /logo.png
    variant: header2
  - op: static
    static:
      slug: privacy
      components:
        - id: p1
          type: text
          componentName: text1
  - op: removePage
    page: old
`

func TestLoadEditScript(t *testing.T) {
	s, err := loadEditScript(writeScript(t, sampleScript))
	if err != nil {
		t.Fatalf("loadEditScript: %v", err)
	}
	if s.Website != "acme" || len(s.Ops) != 5 {
		t.Fatalf("script = %+v", s)
	}
	up := s.Ops[0]
	if up.Position == nil || *up.Position != 0 {
		t.Errorf("upsert position = %v", up.Position)
	}
	if up.Component == nil || up.Component.ID != "h2" || up.Component.Data["title"] != "Contact us" {
		t.Errorf("upsert component = %+v", up.Component)
	}
	if got := strings.Join(s.Ops[1].IDs, ","); got != "h2,h1" {
		t.Errorf("reorder ids = %s", got)
	}
	if s.Ops[3].Static == nil || s.Ops[3].Static.Slug != "privacy" {
		t.Errorf("static = %+v", s.Ops[3].Static)
	}
}

func TestLoadEditScriptWithoutOps(t *testing.T) {
	if _, err := loadEditScript(writeScript(t, "website: acme\n")); err == nil {
		t.Fatal("expected an error for a script without ops")
	}
}

func TestRunApplySavesEdits(t *testing.T) {
	s, err := loadEditScript(writeScript(t, sampleScript))
	if err != nil {
		t.Fatal(err)
	}
	tok := issueToken(t, "secret", identity.Identity{Username: "acme", TenantID: "t1"})
	sub := &recordingSubmitter{}
	var out bytes.Buffer

	if err := runApply(context.Background(), s, acmeFetcher(), sub, tok, false, &out); err != nil {
		t.Fatalf("runApply: %v", err)
	}
	if sub.calls != 1 || sub.token != tok {
		t.Fatalf("submitter calls=%d token=%q", sub.calls, sub.token)
	}

	p := sub.payload
	if p.WebsiteName != "acme" || p.Username != "acme" || p.TenantID != "t1" {
		t.Errorf("payload identity = %s/%s/%s", p.WebsiteName, p.Username, p.TenantID)
	}
	home := p.Pages["homepage"]
	if len(home) != 2 || home[0].ID != "h2" || home[1].ID != "h1" {
		t.Fatalf("homepage = %+v", home)
	}
	if home[0].Type != "contactForm" {
		t.Errorf("derived type = %q", home[0].Type)
	}
	if _, ok := p.Pages["old"]; ok {
		t.Error("removed page still in payload")
	}
	if p.GlobalComponentsData.Header["logo"] != "/logo.png" || p.GlobalComponentsData.Header[model.VariantKey] != "header2" {
		t.Errorf("header = %v", p.GlobalComponentsData.Header)
	}
	if _, ok := p.StaticPages["privacy"]; !ok {
		t.Error("static page missing from payload")
	}
	if !strings.Contains(out.String(), "5 ops applied to acme") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunApplyThemeSwitch(t *testing.T) {
	s := EditScript{Website: "acme", Ops: []EditOp{{Op: "theme", Theme: 2}}}
	tok := issueToken(t, "secret", identity.Identity{Username: "acme"})
	sub := &recordingSubmitter{}

	if err := runApply(context.Background(), s, acmeFetcher(), sub, tok, false, &bytes.Buffer{}); err != nil {
		t.Fatalf("runApply: %v", err)
	}
	p := sub.payload
	if p.WebsiteLayout.CurrentTheme != 2 {
		t.Errorf("current theme = %d", p.WebsiteLayout.CurrentTheme)
	}
	if len(p.Pages) != 0 {
		t.Errorf("theme 2 should start empty, got %v", p.Pages)
	}
	backup, ok := p.ThemesBackup[model.ThemeBackupKey(1)]
	if !ok || len(backup.Pages["homepage"]) != 1 {
		t.Errorf("theme 1 backup = %+v", p.ThemesBackup)
	}
}

func TestRunApplyDryRun(t *testing.T) {
	s := EditScript{Website: "acme", Ops: []EditOp{{Op: "remove", Page: "homepage", ID: "h1"}}}
	sub := &recordingSubmitter{}
	var out bytes.Buffer

	if err := runApply(context.Background(), s, acmeFetcher(), sub, "", true, &out); err != nil {
		t.Fatalf("runApply: %v", err)
	}
	if sub.calls != 0 {
		t.Errorf("dry run submitted %d times", sub.calls)
	}
	var p model.SavePayload
	if err := json.Unmarshal(out.Bytes(), &p); err != nil {
		t.Fatalf("dry run output is not a payload: %v\n%s", err, out.String())
	}
	if p.WebsiteName != "acme" || len(p.Pages["homepage"]) != 0 {
		t.Errorf("payload = %+v", p)
	}
}

func TestRunApplyErrors(t *testing.T) {
	tok := issueToken(t, "secret", identity.Identity{Username: "acme"})

	tests := []struct {
		name  string
		ops   []EditOp
		token string
	}{
		{"unknown op", []EditOp{{Op: "explode"}}, tok},
		{"unknown component", []EditOp{{Op: "remove", Page: "homepage", ID: "nope"}}, tok},
		{"bad slot", []EditOp{{Op: "global", Slot: "sidebar", Data: map[string]any{"a": 1}}}, tok},
		{"upsert without component", []EditOp{{Op: "upsert", Page: "homepage"}}, tok},
		{"missing token", []EditOp{{Op: "removePage", Page: "old"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &recordingSubmitter{}
			s := EditScript{Website: "acme", Ops: tt.ops}
			if err := runApply(context.Background(), s, acmeFetcher(), sub, tt.token, false, &bytes.Buffer{}); err == nil {
				t.Fatal("expected an error")
			}
			if sub.calls != 0 {
				t.Errorf("failed script submitted %d times", sub.calls)
			}
		})
	}
}

func TestRunApplySubmitFailure(t *testing.T) {
	s := EditScript{Website: "acme", Ops: []EditOp{{Op: "removePage", Page: "old"}}}
	tok := issueToken(t, "secret", identity.Identity{Username: "acme"})
	sub := &recordingSubmitter{err: &client.APIError{Status: 500, Message: "boom"}}
	var out bytes.Buffer

	err := runApply(context.Background(), s, acmeFetcher(), sub, tok, false, &out)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if !strings.Contains(out.String(), "boom") {
		t.Errorf("failure not reported: %q", out.String())
	}
}

func TestRunApplyAgainstServer(t *testing.T) {
	st, err := storage.OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	const secret = "apply-secret"
	issuer, err := identity.NewIssuer(secret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(api.NewServer(st, issuer).Handler())
	defer ts.Close()

	c := client.New(ts.URL, 5*time.Second)
	tok := issueToken(t, secret, identity.Identity{Username: "acme", TenantID: "t1"})
	s := EditScript{Ops: []EditOp{{
		Op:        "upsert",
		Page:      "homepage",
		Component: &model.ComponentInstance{ID: "h1", Type: "hero", Data: map[string]any{"title": "Hi"}},
	}}}

	var out bytes.Buffer
	if err := runApply(context.Background(), s, c, c, tok, false, &out); err != nil {
		t.Fatalf("runApply: %v", err)
	}
	if !strings.Contains(out.String(), "does not exist yet") {
		t.Errorf("new website not reported: %q", out.String())
	}

	doc, err := st.Load(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	home := doc.Pages["homepage"]
	if len(home) != 1 || home[0].ComponentName != "hero1" || home[0].Data["title"] != "Hi" {
		t.Errorf("stored homepage = %+v", home)
	}
}
