package export

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/starford/ansuz/internal/graph"
	"github.com/starford/ansuz/internal/logseq"
)

func addPage(t *testing.T, g *graph.Graph, text, name string) *logseq.Page {
	t.Helper()
	page, err := logseq.ParsePageText(text, name)
	if err != nil {
		t.Fatalf("ParsePageText(%q): %v", name, err)
	}
	if err := g.AddPage(page); err != nil {
		t.Fatalf("AddPage(%q): %v", name, err)
	}
	return page
}

func TestPrepareText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`costs \$5`, "costs $5"},
		{`a\b`, `a\\b`},
		{"two\nlines", `two\\nlines`},
		{`say "hi"`, "say *hi*"},
	}
	for _, c := range cases {
		if got := PrepareText(c.in); got != c.want {
			t.Errorf("PrepareText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCollect_PagesIncludePlaceholders(t *testing.T) {
	g := graph.New(nil)
	addPage(t, g, "- see [[Elsewhere]]", "source")

	s := Collect(g, nil)
	var found *PageRow
	for i := range s.Pages {
		if s.Pages[i].Name == "Elsewhere" {
			found = &s.Pages[i]
		}
	}
	if found == nil {
		t.Fatal("placeholder page missing from snapshot")
	}
	if !found.IsPlaceholder {
		t.Error("placeholder flag not projected")
	}
	if len(s.PageLinks) != 1 || s.PageLinks[0].Target != "Elsewhere" {
		t.Errorf("page links = %+v", s.PageLinks)
	}
}

func TestCollect_MembershipsAndBranches(t *testing.T) {
	g := graph.New(nil)
	page := addPage(t, g, "- a\n\t- b\n- c", "tree")

	s := Collect(g, nil)
	if len(s.Memberships) != 3 {
		t.Fatalf("memberships = %+v, want 3", s.Memberships)
	}
	// An opener line is one depth unit on its own; each indent adds one.
	for i, want := range []struct {
		content string
		depth   int
	}{{"a", 1}, {"b", 2}, {"c", 1}} {
		m := s.Memberships[i]
		if m.Position != i || m.Depth != want.depth {
			t.Errorf("membership %d = %+v, want position %d depth %d", i, m, i, want.depth)
		}
	}

	if len(s.Branches) != 1 {
		t.Fatalf("branches = %+v, want 1", s.Branches)
	}
	all := page.AllBlocks()
	branch := s.Branches[0]
	if branch.UUID != all[1].ID.String() || branch.Parent != all[0].ID.String() {
		t.Errorf("branch = %+v, want b under a", branch)
	}
	if branch.Position != 1 || branch.Depth != 2 {
		t.Errorf("branch placement = %+v", branch)
	}
}

func TestCollect_BlockLinksRequireKnownTarget(t *testing.T) {
	g := graph.New(nil)
	target := addPage(t, g, "- the target", "target")
	targetID := target.AllBlocks()[0].ID

	text := fmt.Sprintf("- ((%s))\n- ((f47ac10b-58cc-4372-a567-0e02b2c3d479))", targetID)
	addPage(t, g, text, "source")

	s := Collect(g, nil)
	if len(s.BlockLinks) != 1 {
		t.Fatalf("block links = %+v, want 1", s.BlockLinks)
	}
	if s.BlockLinks[0].Target != targetID.String() {
		t.Errorf("block link target = %q, want %q", s.BlockLinks[0].Target, targetID)
	}
}

func TestCollect_TagLinks(t *testing.T) {
	g := graph.New(nil)
	page := addPage(t, g, "- working on #go today", "journal")

	s := Collect(g, nil)
	if len(s.TagLinks) != 1 {
		t.Fatalf("tag links = %+v, want 1", s.TagLinks)
	}
	tl := s.TagLinks[0]
	if tl.Source != page.AllBlocks()[0].ID.String() || tl.Target != "go" || !tl.AsTag {
		t.Errorf("tag link = %+v", tl)
	}
}

func TestCollect_ResourcesDeduplicated(t *testing.T) {
	g := graph.New(nil)
	g.AddAsset(logseq.Asset{Path: "/graph/assets/pic.png"})
	addPage(t, g, "- ![shot](../assets/pic.png)\n- ![again](../assets/pic.png)\n- [site](https://example.com/)", "media")

	s := Collect(g, nil)
	if len(s.ResourceLinks) != 3 {
		t.Fatalf("resource links = %+v, want 3", s.ResourceLinks)
	}
	if len(s.Resources) != 2 {
		t.Fatalf("resources = %+v, want 2 distinct", s.Resources)
	}
	byPath := make(map[string]bool)
	for _, r := range s.Resources {
		byPath[r.Path] = r.IsAsset
	}
	if !byPath["../assets/pic.png"] {
		t.Error("asset resource should be flagged is_asset")
	}
	if byPath["https://example.com/"] {
		t.Error("external resource must not be flagged is_asset")
	}
}

func TestCollect_DuplicateBlockIDsSurviveWrite(t *testing.T) {
	g := graph.New(nil)
	text := "- first\n  id:: f47ac10b-58cc-4372-a567-0e02b2c3d479\n" +
		"- second\n  id:: f47ac10b-58cc-4372-a567-0e02b2c3d479"
	addPage(t, g, text, "dupes")

	s := Collect(g, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if len(s.Blocks) != 1 {
		t.Fatalf("blocks = %+v, want the first occurrence only", s.Blocks)
	}
	if s.Blocks[0].Content != "first" {
		t.Errorf("kept block = %+v, want the first occurrence", s.Blocks[0])
	}
	if len(s.Memberships) != 1 {
		t.Fatalf("memberships = %+v, want 1", s.Memberships)
	}

	// The whole point: the snapshot must not trip uniqueness
	// constraints on load.
	db := testDB(t)
	if err := db.Write(s); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestCollect_PagePropertyValuesPrepared(t *testing.T) {
	g := graph.New(nil)
	addPage(t, g, "title:: say \"hi\"\n- body", "quoted")

	s := Collect(g, nil)
	var got string
	for _, p := range s.PageProperties {
		if p.Owner == "quoted" && p.Property == "title" {
			got = p.Value
		}
	}
	if got != "say *hi*" {
		t.Errorf("prepared value = %q, want %q", got, "say *hi*")
	}
}

func TestCollect_Deterministic(t *testing.T) {
	g := graph.New(nil)
	addPage(t, g, "- alpha links [[beta]]", "alpha")
	addPage(t, g, "tags:: t1, t2\n- beta body", "beta")

	a := Collect(g, nil)
	b := Collect(g, nil)
	if len(a.Pages) != len(b.Pages) {
		t.Fatal("page counts differ between runs")
	}
	for i := range a.Pages {
		if a.Pages[i] != b.Pages[i] {
			t.Errorf("page %d differs: %+v vs %+v", i, a.Pages[i], b.Pages[i])
		}
	}
	for i := range a.Blocks {
		if a.Blocks[i] != b.Blocks[i] {
			t.Errorf("block %d differs", i)
		}
	}
}
