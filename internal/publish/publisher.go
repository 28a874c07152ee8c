// Package publish writes the public slice of a graph to a static-site
// content directory.
package publish

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/starford/ansuz/internal/graph"
	"github.com/starford/ansuz/internal/logseq"
)

// PageMap maps page names to output slugs.
type PageMap map[string]string

// Publisher writes a graph's public pages to a content folder.
type Publisher struct {
	graph  *graph.Graph
	logger *slog.Logger

	pageMap PageMap
}

// New returns a publisher for the graph. A nil logger falls back to
// slog.Default.
func New(g *graph.Graph, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{graph: g, logger: logger}
}

// PageSlug returns the destination path for a page name. Namespace
// separators survive; each segment is slugified on its own.
func PageSlug(name string) string {
	steps := strings.Split(name, "/")
	for i, step := range steps {
		steps[i] = slug.Make(step)
	}
	return strings.Join(steps, "/")
}

// PageMap returns the mapping of every page name to its output slug,
// built once and cached.
func (p *Publisher) PageMap() PageMap {
	if p.pageMap == nil {
		p.pageMap = make(PageMap, len(p.graph.Pages))
		for name := range p.graph.Pages {
			p.pageMap[name] = PageSlug(name)
		}
	}
	return p.pageMap
}

// Publish writes each public page's raw outline under dir as
// <slug>.md, creating namespace subdirectories as needed. Placeholder
// and non-public pages are skipped. Returns the number of pages
// written.
func (p *Publisher) Publish(dir string) (int, error) {
	pageMap := p.PageMap()
	written := 0

	for name, page := range p.graph.Pages {
		if page.IsPlaceholder || !page.IsPublic() {
			continue
		}

		target := filepath.Join(dir, filepath.FromSlash(pageMap[name])+".md")
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("publish: create dir for %q: %w", name, err)
		}
		if err := os.WriteFile(target, []byte(pageSource(page)), 0o644); err != nil {
			return written, fmt.Errorf("publish: write %q: %w", name, err)
		}
		p.logger.Debug("published page",
			slog.String("page", name), slog.String("path", target))
		written++
	}

	p.logger.Info("publish finished",
		slog.String("dir", dir),
		slog.Int("pages", written),
		slog.Int("page_map", len(pageMap)))
	return written, nil
}

// pageSource reassembles a page's outline text from its blocks in
// document order. Raw lines keep their indentation and markers, so the
// output round-trips through the parser.
func pageSource(page *logseq.Page) string {
	blocks := page.AllBlocks()
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		parts = append(parts, block.Raw())
	}
	return strings.Join(parts, "\n")
}
