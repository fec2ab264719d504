package editor

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/identity"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
)

var actor = identity.Identity{Username: "acme", Token: "t", TenantID: "tenant-1"}

func ids(list []model.ComponentInstance) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func mustUpsert(t *testing.T, s *Store, page string, inst model.ComponentInstance, opts ...UpsertOption) model.ComponentInstance {
	t.Helper()
	c, err := s.UpsertComponent(page, inst, opts...)
	if err != nil {
		t.Fatalf("UpsertComponent(%s, %s) error = %v", page, inst.ID, err)
	}
	return c
}

func TestUpsertIntoEmptyStoreIsSaved(t *testing.T) {
	s := New()
	mustUpsert(t, s, "homepage", model.ComponentInstance{
		ID: "h1", Type: "hero", ComponentName: "hero2",
		Data: map[string]any{"title": "X"},
	}, WithPosition(0))

	p := s.BuildSavePayload(actor)
	home := p.Pages["homepage"]
	if len(home) != 1 {
		t.Fatalf("homepage = %+v", home)
	}
	if home[0].ID != "h1" || home[0].ComponentName != "hero2" || home[0].Data["title"] != "X" {
		t.Errorf("homepage[0] = %+v", home[0])
	}
	if home[0].Layout == nil || *home[0].Layout != model.DefaultLayout() {
		t.Errorf("layout = %+v", home[0].Layout)
	}
}

func TestUpsertPositions(t *testing.T) {
	s := New()
	a := mustUpsert(t, s, "homepage", model.ComponentInstance{ID: "a", Type: "hero"})
	if a.Position != 0 || a.ComponentName != "hero1" {
		t.Fatalf("first instance = %+v", a)
	}
	mustUpsert(t, s, "homepage", model.ComponentInstance{ID: "b", Type: "title"}, WithPosition(7))
	c := mustUpsert(t, s, "homepage", model.ComponentInstance{ID: "c", ComponentName: "video1"})
	if c.Position != 8 || c.Type != "video" {
		t.Fatalf("appended instance = %+v", c)
	}

	// Replacing keeps the position and the insertion slot.
	r := mustUpsert(t, s, "homepage", model.ComponentInstance{ID: "a", Type: "hero", ComponentName: "hero3"})
	if r.Position != 0 {
		t.Errorf("replaced instance moved to %d", r.Position)
	}
	if got := ids(s.Components("homepage")); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("order = %v", got)
	}
	if inst, _ := s.Component("homepage", "a"); inst.ComponentName != "hero3" {
		t.Errorf("replacement not stored: %+v", inst)
	}

	gen := mustUpsert(t, s, "homepage", model.ComponentInstance{Type: "grid"})
	if gen.ID == "" {
		t.Error("no id generated")
	}

	if _, err := s.UpsertComponent("", model.ComponentInstance{ID: "x"}); !errors.Is(err, ErrEmptySlug) {
		t.Errorf("empty slug: err = %v", err)
	}
}

func TestRemoveKeepsGaps(t *testing.T) {
	s := New()
	for _, id := range []string{"a", "b", "c"} {
		mustUpsert(t, s, "homepage", model.ComponentInstance{ID: id, Type: "title"})
	}
	if !s.RemoveComponent("homepage", "b") {
		t.Fatal("RemoveComponent() = false")
	}
	if s.RemoveComponent("homepage", "b") {
		t.Error("second remove reported success")
	}
	got := s.Components("homepage")
	if len(got) != 2 || got[0].Position != 0 || got[1].Position != 2 {
		t.Errorf("after remove = %+v", got)
	}
}

func TestReorder(t *testing.T) {
	s := New()
	for _, id := range []string{"id1", "id2", "id3", "id4"} {
		mustUpsert(t, s, "homepage", model.ComponentInstance{ID: id, Type: "title"})
	}

	if err := s.Reorder("homepage", []string{"id3", "id1", "id2"}); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	got := ids(s.Components("homepage"))
	if !reflect.DeepEqual(got[:3], []string{"id3", "id1", "id2"}) || got[3] != "id4" {
		t.Fatalf("order = %v", got)
	}
	saved := ids(s.BuildSavePayload(actor).Pages["homepage"])
	if !reflect.DeepEqual(saved, got) {
		t.Errorf("payload order = %v, want %v", saved, got)
	}

	err := s.Reorder("homepage", []string{"id1", "nope"})
	if !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("unknown id: err = %v", err)
	}
	if err := s.Reorder("homepage", []string{"id1", "id1"}); err == nil {
		t.Error("duplicate ids accepted")
	}
	if after := ids(s.Components("homepage")); !reflect.DeepEqual(after, got) {
		t.Errorf("failed reorder changed the page: %v", after)
	}
}

func TestGlobalSlots(t *testing.T) {
	s := New()
	if err := s.SetGlobalVariant(model.SlotHeader, "header2"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetGlobalComponentData(model.SlotHeader, map[string]any{"logo": "a.png"}); err != nil {
		t.Fatal(err)
	}
	g, _ := s.Global(model.SlotHeader)
	if g.Variant != "header2" || g.Data["logo"] != "a.png" {
		t.Errorf("header = %+v", g)
	}

	if err := s.SetGlobalComponentData(model.SlotFooter, map[string]any{"variant": "footer2", "text": "hi"}); err != nil {
		t.Fatal(err)
	}
	f, _ := s.Global(model.SlotFooter)
	if f.Variant != "footer2" || f.Data["variant"] != nil {
		t.Errorf("footer = %+v", f)
	}

	p := s.BuildSavePayload(actor)
	if p.GlobalComponentsData.Header["variant"] != "header2" || p.GlobalComponentsData.Header["logo"] != "a.png" {
		t.Errorf("payload header = %v", p.GlobalComponentsData.Header)
	}

	if err := s.SetGlobalVariant("sidebar", "x"); !errors.Is(err, ErrUnknownSlot) {
		t.Errorf("unknown slot: err = %v", err)
	}
	if _, err := s.Global("sidebar"); !errors.Is(err, ErrUnknownSlot) {
		t.Errorf("unknown slot read: err = %v", err)
	}
}

func TestStaticPagesNeverSavedAsDynamic(t *testing.T) {
	s := New()
	s.Hydrate(&model.TenantDocument{
		WebsiteName: "acme",
		Pages: map[string][]model.ComponentInstance{
			"homepage": {{ID: "h1", Type: "hero"}},
			"privacy":  {{ID: "stale", Type: "title"}},
		},
		StaticPages: map[string]json.RawMessage{
			"privacy": json.RawMessage(`["privacy", [{"id":"p1","type":"title"}], {"list":"/api/privacy"}]`),
			"updates": json.RawMessage(`{"slug":"updates","components":[]}`),
			"broken":  json.RawMessage(`42`),
		},
	})

	p := s.BuildSavePayload(actor)
	for slug := range p.Pages {
		if _, ok := p.StaticPages[slug]; ok {
			t.Errorf("slug %q is both dynamic and static", slug)
		}
	}
	if _, ok := p.Pages["homepage"]; !ok {
		t.Error("dynamic page dropped")
	}
	if len(p.StaticPages) != 2 {
		t.Errorf("static pages = %v", p.StaticPages)
	}
	if p.StaticPages["privacy"].APIEndpoints["list"] != "/api/privacy" {
		t.Errorf("privacy = %+v", p.StaticPages["privacy"])
	}
}

func TestThemeBackupExclusion(t *testing.T) {
	s := New()
	if err := s.SetCurrentTheme(1); err != nil {
		t.Fatal(err)
	}
	mustUpsert(t, s, "homepage", model.ComponentInstance{ID: "h1", Type: "hero"})
	s.SnapshotThemeBackup(1)
	if err := s.SetCurrentTheme(2); err != nil {
		t.Fatalf("SetCurrentTheme(2) error = %v", err)
	}

	p := s.BuildSavePayload(actor)
	if _, ok := p.ThemesBackup["Theme1Backup"]; !ok {
		t.Error("Theme1Backup missing")
	}
	if _, ok := p.ThemesBackup["Theme2Backup"]; ok {
		t.Error("Theme2Backup present while theme 2 is active")
	}
	if got := p.ThemesBackup["Theme1Backup"].Pages["homepage"]; len(got) != 1 || got[0].ID != "h1" {
		t.Errorf("Theme1Backup pages = %+v", got)
	}
}

func TestThemeBackupExclusionFiltersHydratedKeys(t *testing.T) {
	s := New()
	s.Hydrate(&model.TenantDocument{
		WebsiteLayout: model.WebsiteLayout{CurrentTheme: 3},
		ThemesBackup: map[string]model.ThemeBackup{
			"Theme1Backup": {},
			"Theme3Backup": {},
			"OldBackup":    {},
		},
	})
	p := s.BuildSavePayload(actor)
	for key := range p.ThemesBackup {
		n, ok := model.ParseThemeBackupKey(key)
		if !ok || n == p.WebsiteLayout.CurrentTheme {
			t.Errorf("payload holds backup %q", key)
		}
	}
	if len(p.ThemesBackup) != 1 {
		t.Errorf("backups = %v", p.ThemesBackup)
	}
}

func TestThemeChangeRequiresSnapshot(t *testing.T) {
	s := New()
	mustUpsert(t, s, "homepage", model.ComponentInstance{ID: "h1", Type: "hero"})
	if !s.Dirty() {
		t.Fatal("store not dirty after upsert")
	}
	if err := s.SetCurrentTheme(2); !errors.Is(err, ErrThemeNotSnapshotted) {
		t.Fatalf("SetCurrentTheme() error = %v", err)
	}
	l := s.WebsiteLayout()
	l.CurrentTheme = 2
	if err := s.SetWebsiteLayout(l); !errors.Is(err, ErrThemeNotSnapshotted) {
		t.Fatalf("SetWebsiteLayout() error = %v", err)
	}

	// A snapshot of another theme does not count.
	s.SnapshotThemeBackup(5)
	if err := s.SetCurrentTheme(2); !errors.Is(err, ErrThemeNotSnapshotted) {
		t.Fatalf("after foreign snapshot: %v", err)
	}
	s.SnapshotThemeBackup(1)
	if err := s.SetCurrentTheme(2); err != nil {
		t.Fatalf("after snapshot: %v", err)
	}
}

func TestSwitchTheme(t *testing.T) {
	s := New()
	mustUpsert(t, s, "homepage", model.ComponentInstance{ID: "t1", Type: "hero"})
	_ = s.SetGlobalVariant(model.SlotHeader, "header1")

	s.SwitchTheme(2)
	if got := s.Components("homepage"); len(got) != 0 {
		t.Fatalf("theme 2 should start empty, got %+v", got)
	}
	if s.WebsiteLayout().CurrentTheme != 2 || s.Dirty() {
		t.Fatalf("layout = %+v dirty = %v", s.WebsiteLayout(), s.Dirty())
	}
	mustUpsert(t, s, "homepage", model.ComponentInstance{ID: "t2", Type: "title"})

	s.SwitchTheme(1)
	if got := ids(s.Components("homepage")); !reflect.DeepEqual(got, []string{"t1"}) {
		t.Fatalf("theme 1 restored as %v", got)
	}
	if g, _ := s.Global(model.SlotHeader); g.Variant != "header1" {
		t.Errorf("header variant = %q", g.Variant)
	}
	backups := s.ThemeBackups()
	if _, ok := backups["Theme1Backup"]; ok {
		t.Error("active theme still has a backup")
	}
	if b, ok := backups["Theme2Backup"]; !ok || b.Pages["homepage"][0].ID != "t2" {
		t.Errorf("Theme2Backup = %+v", b)
	}
}

func TestRoundTrip(t *testing.T) {
	s := New()
	s.Hydrate(&model.TenantDocument{
		WebsiteName: "acme",
		Pages: map[string][]model.ComponentInstance{
			"homepage": {
				{ID: "h1", Type: "hero", ComponentName: "hero2", Data: map[string]any{"title": "X"}, Position: 4},
				{ID: "h2", Type: "title", ComponentName: "title1", Position: 1},
			},
			"about-us": {},
		},
		GlobalComponentsData: model.GlobalComponentsData{
			Header: map[string]any{"logo": "a.png", "variant": "header2"},
		},
		WebsiteLayout: model.WebsiteLayout{CurrentTheme: 1, Branding: model.Branding{Colors: map[string]string{"primary": "#000"}}},
		StaticPages: map[string]json.RawMessage{
			"privacy": json.RawMessage(`["privacy", [{"id":"p1","type":"title"}]]`),
		},
		ThemesBackup: map[string]model.ThemeBackup{
			"Theme1Backup": {},
			"Theme2Backup": {Pages: map[string][]model.ComponentInstance{"homepage": {{ID: "old"}}}},
		},
	})
	mustUpsert(t, s, "homepage", model.ComponentInstance{ID: "h3", Type: "video"})
	_ = s.SetStaticPage(model.StaticPage{Slug: "updates", Components: []model.ComponentInstance{{ID: "u1", Type: "grid"}}})

	first := s.BuildSavePayload(actor)
	doc, err := first.Document()
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}

	fresh := New()
	fresh.Hydrate(doc)
	second := fresh.BuildSavePayload(actor)

	if !reflect.DeepEqual(first.Pages, second.Pages) {
		t.Errorf("pages differ:\n%+v\n%+v", first.Pages, second.Pages)
	}
	if !reflect.DeepEqual(first.GlobalComponentsData, second.GlobalComponentsData) {
		t.Errorf("globals differ:\n%+v\n%+v", first.GlobalComponentsData, second.GlobalComponentsData)
	}
	if !reflect.DeepEqual(first.StaticPages, second.StaticPages) {
		t.Errorf("static pages differ:\n%+v\n%+v", first.StaticPages, second.StaticPages)
	}
	if !reflect.DeepEqual(first.ThemesBackup, second.ThemesBackup) {
		t.Errorf("backups differ:\n%+v\n%+v", first.ThemesBackup, second.ThemesBackup)
	}
	for _, slug := range []string{"homepage", "about-us"} {
		if !reflect.DeepEqual(s.Components(slug), fresh.Components(slug)) {
			t.Errorf("%s differs after round trip", slug)
		}
	}
}

func TestPayloadAttribution(t *testing.T) {
	s := New()
	p := s.BuildSavePayload(identity.Identity{Username: "acme", TenantID: "t-9"})
	if p.WebsiteName != "acme" || p.Username != "acme" || p.TenantID != "t-9" {
		t.Errorf("attribution = %+v", p)
	}
	p = s.BuildSavePayload(identity.Identity{Username: "acme", WebsiteName: "acme-homes"})
	if p.WebsiteName != "acme-homes" {
		t.Errorf("website name = %q", p.WebsiteName)
	}
	if p.StaticPages != nil {
		t.Error("empty static pages attached")
	}
}

func TestLegacyComponentSettingsHydrate(t *testing.T) {
	s := New()
	s.Hydrate(&model.TenantDocument{
		ComponentSettings: map[string]map[string]model.ComponentInstance{
			"contact-us": {
				"c2": {Type: "contactFormSection", Position: 2},
				"c1": {Type: "title", Position: 1},
			},
		},
	})
	if got := ids(s.Components("contact-us")); !reflect.DeepEqual(got, []string{"c1", "c2"}) {
		t.Errorf("contact-us = %v", got)
	}
	if s.Dirty() {
		t.Error("hydrate left the store dirty")
	}
}

func TestReorderMissingPageIsNotCreated(t *testing.T) {
	s := New()
	mustUpsert(t, s, "homepage", model.ComponentInstance{ID: "h1", Type: "hero"})

	if err := s.Reorder("ghost", nil); err != nil {
		t.Fatalf("Reorder(ghost, nil) error = %v", err)
	}
	if err := s.Reorder("ghost", []string{"h1"}); !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("Reorder(ghost, [h1]) err = %v", err)
	}
	p := s.BuildSavePayload(actor)
	if _, ok := p.Pages["ghost"]; ok {
		t.Errorf("phantom page saved: %v", p.Pages)
	}
	if got := s.Pages(); !reflect.DeepEqual(got, []string{"homepage"}) {
		t.Errorf("pages = %v", got)
	}
}

func TestUpsertRejectsStaticSlug(t *testing.T) {
	s := New()
	if err := s.SetStaticPage(model.StaticPage{Slug: "privacy"}); err != nil {
		t.Fatal(err)
	}

	_, err := s.UpsertComponent("privacy", model.ComponentInstance{ID: "p1", Type: "title"})
	if !errors.Is(err, ErrStaticPage) {
		t.Fatalf("err = %v, want ErrStaticPage", err)
	}
	if got := s.Components("privacy"); len(got) != 0 {
		t.Errorf("dynamic page created for static slug: %v", got)
	}

	// Once the static page is gone the slug is a normal page again.
	s.RemoveStaticPage("privacy")
	mustUpsert(t, s, "privacy", model.ComponentInstance{ID: "p1", Type: "title"})
	if got := ids(s.BuildSavePayload(actor).Pages["privacy"]); !reflect.DeepEqual(got, []string{"p1"}) {
		t.Errorf("privacy = %v", got)
	}
}
