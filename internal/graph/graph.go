// Package graph assembles parsed pages into a whole-graph view: duplicate
// detection, placeholder pages for referenced-but-unauthored names, and a
// registry of every block by identifier.
package graph

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/logseq"
)

// PagePropertyMap maps property name → page name → property value.
type PagePropertyMap map[string]map[string]string

// PageLink is one page-to-page connection.
type PageLink struct {
	From string
	To   string
}

// Graph is an organized collection of pages.
type Graph struct {
	Pages  map[string]*logseq.Page
	Blocks map[uuid.UUID]*logseq.Block
	Assets map[string]logseq.Asset

	logger *slog.Logger
}

// New returns an empty graph. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.Default()
	}
	return &Graph{
		Pages:  make(map[string]*logseq.Page),
		Blocks: make(map[uuid.UUID]*logseq.Block),
		Assets: make(map[string]logseq.Asset),
		logger: logger,
	}
}

// HasPage reports whether a page with the given name has been added.
func (g *Graph) HasPage(name string) bool {
	_, ok := g.Pages[name]
	return ok
}

// AddPage adds a page, overwriting a placeholder with the same name but
// failing on any other duplicate. Every name the page references without
// a known page — namespace parent, link target, tag, property name — is
// registered as a placeholder.
func (g *Graph) AddPage(page *logseq.Page) error {
	if existing, ok := g.Pages[page.Name]; ok {
		if !existing.IsPlaceholder {
			return fmt.Errorf("%w: %q", apperr.ErrDuplicatePage, page.Name)
		}
		g.logger.Debug("overwriting placeholder entry", slog.String("page", page.Name))
	}

	g.Pages[page.Name] = page

	for _, block := range page.AllBlocks() {
		g.Blocks[block.ID] = block
	}

	if ns := page.Namespace(); ns != logseq.NamespaceSelf && !g.HasPage(ns) {
		if err := g.AddPlaceholder(ns); err != nil {
			return err
		}
	}

	for _, link := range page.Links() {
		if !g.HasPage(link.Target) {
			if err := g.AddPlaceholder(link.Target); err != nil {
				return err
			}
		}
	}

	for _, tag := range page.Tags() {
		if !g.HasPage(tag) {
			if err := g.AddPlaceholder(tag); err != nil {
				return err
			}
		}
	}

	for field := range page.Properties {
		if !g.HasPage(field) {
			if err := g.AddPlaceholder(field); err != nil {
				return err
			}
		}
	}

	return nil
}

// AddPlaceholder remembers a page name without requiring authored content.
func (g *Graph) AddPlaceholder(name string) error {
	return g.AddPage(logseq.NewPlaceholder(name))
}

// AddAsset registers an asset file under its link name.
func (g *Graph) AddAsset(asset logseq.Asset) {
	g.Assets[asset.Name()] = asset
}

// HasAsset reports whether the given link target names a known asset.
func (g *Graph) HasAsset(name string) bool {
	_, ok := g.Assets[name]
	return ok
}

// PageProperties aggregates every page-level property across the graph.
func (g *Graph) PageProperties() PagePropertyMap {
	properties := make(PagePropertyMap)
	for _, page := range g.Pages {
		for name, prop := range page.Properties {
			if properties[name] == nil {
				properties[name] = make(map[string]string)
			}
			properties[name][page.Name] = prop.Value
		}
	}
	return properties
}

// PageTags maps each tag to the pages carrying it.
func (g *Graph) PageTags() map[string][]string {
	tags := make(map[string][]string)
	for name, page := range g.Pages {
		for _, tag := range page.Tags() {
			tags[tag] = append(tags[tag], name)
		}
	}
	return tags
}

// Links returns every page-to-page connection in the graph.
func (g *Graph) Links() []PageLink {
	var connections []PageLink
	for _, page := range g.Pages {
		for _, link := range page.Links() {
			connections = append(connections, PageLink{From: page.Name, To: link.Target})
		}
	}
	return connections
}
