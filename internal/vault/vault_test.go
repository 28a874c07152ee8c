package vault

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testVault(t *testing.T, files map[string]string) *Vault {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	v, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return v
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPageName(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"pages/Cooking.md", "Cooking"},
		{"pages/Projects___Ansuz.md", "Projects/Ansuz"},
		{"journals/2024_03_15.md", "2024/03/15"},
	}
	for _, c := range cases {
		if got := PageName(c.path); got != c.want {
			t.Errorf("PageName(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestListPages(t *testing.T) {
	v := testVault(t, map[string]string{
		"pages/One.md":         "- hello",
		"journals/2024_01_02.md": "- journal entry",
		"pages/ignored.txt":    "not markdown",
	})

	files, err := v.ListPages()
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	// Sorted by path: journals before pages.
	if files[0].Name != "2024/01/02" || files[1].Name != "One" {
		t.Errorf("names = %q, %q", files[0].Name, files[1].Name)
	}
	if files[0].Checksum == "" {
		t.Error("checksum missing")
	}
}

func TestRead_EscapeRejected(t *testing.T) {
	v := testVault(t, map[string]string{"pages/One.md": "- hi"})

	if _, err := v.Read("../outside.md"); err == nil {
		t.Fatal("path escape should be rejected")
	}
	if _, err := v.Read("/etc/passwd"); err == nil {
		t.Fatal("absolute path should be rejected")
	}
}

func TestLoadGraph(t *testing.T) {
	v := testVault(t, map[string]string{
		"pages/Source.md": "- see [[Target]]",
		"pages/Target.md": "- the target\n\t- a child",
		"assets/pic.png":  "binary",
	})

	g, err := v.LoadGraph(context.Background(), discardLogger())
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}
	if !g.HasPage("Source") || !g.HasPage("Target") {
		t.Fatal("authored pages missing")
	}
	if g.Pages["Target"].IsPlaceholder {
		t.Error("authored page must not stay a placeholder")
	}
	if len(g.Blocks) != 3 {
		t.Errorf("len(blocks) = %d, want 3", len(g.Blocks))
	}
	if !g.HasAsset("../assets/pic.png") {
		t.Error("asset missing")
	}
}

func TestFingerprint_TracksContentChanges(t *testing.T) {
	v := testVault(t, map[string]string{"pages/One.md": "- first"})

	before, err := v.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	same, err := v.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if before != same {
		t.Error("fingerprint should be stable without changes")
	}

	if err := os.WriteFile(filepath.Join(v.Root(), "pages", "One.md"), []byte("- changed"), 0o644); err != nil {
		t.Fatal(err)
	}
	after, err := v.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if after == before {
		t.Error("fingerprint should change when page content changes")
	}
}

func TestLoadGraph_SkipsBrokenPage(t *testing.T) {
	v := testVault(t, map[string]string{
		"pages/Good.md":   "- fine",
		"pages/Broken.md": "  starts with a continuation",
	})

	g, err := v.LoadGraph(context.Background(), discardLogger())
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}
	if !g.HasPage("Good") {
		t.Error("good page missing")
	}
	if g.HasPage("Broken") {
		t.Error("broken page should be skipped")
	}
}
