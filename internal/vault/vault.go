// Package vault reads a Logseq graph directory from disk: page and journal
// files, asset files, and the decoding of file names into page names.
package vault

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/graph"
	"github.com/starford/ansuz/internal/logseq"
)

// Subdirectories of a Logseq graph that hold page sources and assets.
var pageDirs = []string{"pages", "journals"}

const assetDir = "assets"

// PageFile is metadata for one page source file.
type PageFile struct {
	// Path is relative to the vault root.
	Path string
	// Name is the decoded page name.
	Name string
	// Checksum is the sha256 of the file contents.
	Checksum string
}

// Vault is a Logseq graph directory on disk.
type Vault struct {
	root string
}

// Open validates the graph directory and returns a Vault.
func Open(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("vault: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault: root is not a directory: %s", abs)
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute vault root path.
func (v *Vault) Root() string {
	return v.root
}

// safePath resolves a relative path against the vault root and rejects
// any result that escapes it.
func (v *Vault) safePath(rel string) (string, error) {
	if rel == "" {
		return v.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("vault: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(v.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("vault: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, v.root+string(os.PathSeparator)) && abs != v.root {
		return "", fmt.Errorf("vault: path escapes root: %s", rel)
	}
	return abs, nil
}

// ListPages returns metadata for every .md file under pages/ and
// journals/, sorted by path for deterministic load order.
func (v *Vault) ListPages() ([]PageFile, error) {
	var out []PageFile
	for _, dir := range pageDirs {
		base := filepath.Join(v.root, dir)
		if _, err := os.Stat(base); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
				return nil
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			rel, _ := filepath.Rel(v.root, p)
			out = append(out, PageFile{
				Path:     rel,
				Name:     PageName(p),
				Checksum: checksum.Sum(data),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("vault: list %s: %w", dir, err)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// ListAssets returns every file under assets/.
func (v *Vault) ListAssets() ([]logseq.Asset, error) {
	base := filepath.Join(v.root, assetDir)
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil, nil
	}
	var out []logseq.Asset
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		out = append(out, logseq.Asset{Path: p})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vault: list assets: %w", err)
	}
	return out, nil
}

// Read returns the raw bytes of a vault file by relative path.
func (v *Vault) Read(rel string) ([]byte, error) {
	abs, err := v.safePath(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("vault: read %s: %w", rel, err)
	}
	return data, nil
}

// Fingerprint digests every page file's path and checksum plus every
// asset path. The result changes exactly when a re-export would see
// different input.
func (v *Vault) Fingerprint() (string, error) {
	files, err := v.ListPages()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, file := range files {
		b.WriteString(file.Path)
		b.WriteByte(':')
		b.WriteString(file.Checksum)
		b.WriteByte('\n')
	}

	assets, err := v.ListAssets()
	if err != nil {
		return "", err
	}
	for _, asset := range assets {
		b.WriteString(asset.Path)
		b.WriteByte('\n')
	}

	return checksum.Sum([]byte(b.String())), nil
}

// PageName decodes a page file path into its page name. Logseq encodes
// "/" in page names as triple underscores; single underscores fold into
// the same separator.
func PageName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), ".md")
	stem = strings.ReplaceAll(stem, "___", "/")
	return strings.ReplaceAll(stem, "_", "/")
}

// LoadGraph parses every page in the vault into a graph. Pages are parsed
// concurrently with a bounded worker pool but added in deterministic path
// order; a page that fails to parse is skipped with a warning.
func (v *Vault) LoadGraph(ctx context.Context, logger *slog.Logger) (*graph.Graph, error) {
	files, err := v.ListPages()
	if err != nil {
		return nil, err
	}

	pages := make([]*logseq.Page, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := v.Read(file.Path)
			if err != nil {
				logger.Warn("load: read failed",
					slog.String("path", file.Path), slog.String("error", err.Error()))
				return nil
			}
			page, err := logseq.ParsePageText(string(data), file.Name)
			if err != nil {
				logger.Warn("load: parse failed",
					slog.String("path", file.Path), slog.String("error", err.Error()))
				return nil
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kg := graph.New(logger)
	for _, page := range pages {
		if page == nil {
			continue
		}
		if err := kg.AddPage(page); err != nil {
			return nil, err
		}
	}

	assets, err := v.ListAssets()
	if err != nil {
		return nil, err
	}
	for _, asset := range assets {
		kg.AddAsset(asset)
	}

	logger.Info("graph loaded",
		slog.Int("pages", len(kg.Pages)),
		slog.Int("blocks", len(kg.Blocks)),
		slog.Int("assets", len(kg.Assets)))

	return kg, nil
}
