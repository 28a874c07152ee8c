package logseq

import (
	"errors"
	"strings"
	"testing"
)

func TestParsePageText_Empty(t *testing.T) {
	page, err := ParsePageText("", "empty page")
	if err != nil {
		t.Fatalf("ParsePageText: %v", err)
	}
	if page.Name != "empty page" {
		t.Errorf("name = %q", page.Name)
	}
	if len(page.Blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1", len(page.Blocks))
	}
	if page.IsPlaceholder {
		t.Error("parsed page is not a placeholder")
	}
}

func TestParsePageText_RootPropertiesAdopted(t *testing.T) {
	page, err := ParsePageText("public:: true\ntags:: a, b", "props")
	if err != nil {
		t.Fatalf("ParsePageText: %v", err)
	}
	if !page.IsPublic() {
		t.Error("page should adopt root-block public::")
	}
	if tags := page.Tags(); len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("tags = %v", tags)
	}
}

func TestParsePageText_BranchPropertiesIgnored(t *testing.T) {
	page, err := ParsePageText("- public:: true", "branch props")
	if err != nil {
		t.Fatalf("ParsePageText: %v", err)
	}
	if len(page.Properties) != 0 {
		t.Errorf("depth-1 block properties must not become page properties: %v", page.Properties)
	}
	if page.IsPublic() {
		t.Error("page should not be public")
	}
}

func TestParsePageText_ErrorNamesPage(t *testing.T) {
	_, err := ParsePageText("  dangling", "broken")
	if !errors.Is(err, ErrBlockDepth) {
		t.Fatalf("err = %v, want ErrBlockDepth", err)
	}
	if got := err.Error(); !strings.Contains(got, "broken") {
		t.Errorf("error should name the page: %q", got)
	}
}

func TestPage_Namespace(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Standalone", NamespaceSelf},
		{"Projects/Ansuz", "Projects"},
		{"Projects/Ansuz/Notes", "Projects/Ansuz"},
	}
	for _, c := range cases {
		page := &Page{Name: c.name}
		if got := page.Namespace(); got != c.want {
			t.Errorf("namespace(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestPage_Links(t *testing.T) {
	page, err := ParsePageText("- [[Target]]\n\t- [[Nested Target]]", "linked")
	if err != nil {
		t.Fatalf("ParsePageText: %v", err)
	}
	links := page.Links()
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2 (descendants included)", len(links))
	}
	if links[0].Target != "Target" || links[1].Target != "Nested Target" {
		t.Errorf("links = %v", links)
	}
}

func TestPage_TagLinks(t *testing.T) {
	page, err := ParsePageText("- #reading", "tagged")
	if err != nil {
		t.Fatalf("ParsePageText: %v", err)
	}
	tags := page.TagLinks()
	if len(tags) != 1 || tags[0].Target != "reading" {
		t.Errorf("tag links = %v", tags)
	}
}

func TestPage_AllBlocksPreservesSourceOrder(t *testing.T) {
	page, err := ParsePageText("- a\n\t- b\n\t\t- c\n- d", "ordered")
	if err != nil {
		t.Fatalf("ParsePageText: %v", err)
	}
	all := page.AllBlocks()
	want := []string{"a", "b", "c", "d"}
	if len(all) != len(want) {
		t.Fatalf("len(all) = %d, want %d", len(all), len(want))
	}
	for i, block := range all {
		if block.Content() != want[i] {
			t.Errorf("block %d = %q, want %q", i, block.Content(), want[i])
		}
	}
}

func TestNewPlaceholder(t *testing.T) {
	page := NewPlaceholder("ghost")
	if !page.IsPlaceholder {
		t.Error("placeholder flag should be set")
	}
	if len(page.Blocks) != 0 {
		t.Error("placeholder has no blocks")
	}
}
