package publish

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/graph"
	"github.com/starford/ansuz/internal/logseq"
)

func addPage(t *testing.T, g *graph.Graph, text, name string) {
	t.Helper()
	page, err := logseq.ParsePageText(text, name)
	if err != nil {
		t.Fatalf("ParsePageText(%q): %v", name, err)
	}
	if err := g.AddPage(page); err != nil {
		t.Fatalf("AddPage(%q): %v", name, err)
	}
}

func TestPageSlug(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Page", "page"},
		{"My Page", "my-page"},
		{"Post/My Post", "post/my-post"},
		{"Projects/Ansuz/Dev Notes", "projects/ansuz/dev-notes"},
	}
	for _, c := range cases {
		if got := PageSlug(c.name); got != c.want {
			t.Errorf("PageSlug(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestPageMap_CoversAllPagesAndCaches(t *testing.T) {
	g := graph.New(nil)
	addPage(t, g, "- see [[Other Page]]", "My Page")

	p := New(g, nil)
	m := p.PageMap()
	if m["My Page"] != "my-page" {
		t.Errorf("slug = %q", m["My Page"])
	}
	// Placeholders get slugs too.
	if m["Other Page"] != "other-page" {
		t.Errorf("placeholder slug = %q", m["Other Page"])
	}
	again := p.PageMap()
	if len(again) != len(m) {
		t.Error("page map should be cached")
	}
}

func TestPublish_WritesOnlyPublicPages(t *testing.T) {
	g := graph.New(nil)
	addPage(t, g, "public:: true\n- shown", "Visible")
	addPage(t, g, "- hidden", "Private")
	addPage(t, g, "public:: true\n- nested note", "Post/My Post")

	dir := t.TempDir()
	written, err := New(g, nil).Publish(dir)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if written != 2 {
		t.Errorf("written = %d, want 2", written)
	}

	if _, err := os.Stat(filepath.Join(dir, "visible.md")); err != nil {
		t.Errorf("public page missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "private.md")); !os.IsNotExist(err) {
		t.Error("non-public page must not be written")
	}
	data, err := os.ReadFile(filepath.Join(dir, "post", "my-post.md"))
	if err != nil {
		t.Fatalf("namespaced page missing: %v", err)
	}
	if string(data) != "public:: true\n- nested note" {
		t.Errorf("content = %q", data)
	}
}

func TestPublish_SkipsPlaceholders(t *testing.T) {
	g := graph.New(nil)
	addPage(t, g, "public:: true\n- see [[Ghost]]", "Real")

	dir := t.TempDir()
	if _, err := New(g, nil).Publish(dir); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ghost.md")); !os.IsNotExist(err) {
		t.Error("placeholder page must not be written")
	}
}
