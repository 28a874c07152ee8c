package logseq

import (
	"fmt"
	"path"
)

// NamespaceSelf is the namespace of a page whose name has no parent
// segment.
const NamespaceSelf = "."

// Page is one graph-level document: a named tree of blocks.
type Page struct {
	// Name is the page's unique key within a graph.
	Name string
	// Blocks holds the root blocks of the assembled tree.
	Blocks []*Block
	// Properties are copied from the first block when it sits at depth 0.
	Properties map[string]Property
	// IsPlaceholder marks pages that are referenced but never authored.
	IsPlaceholder bool
}

// ParsePageText parses a source text blob into a named Page.
func ParsePageText(text, name string) (*Page, error) {
	blocks, err := FindBlocks(text)
	if err != nil {
		return nil, fmt.Errorf("page %q: %w", name, err)
	}

	properties := map[string]Property{}
	if blocks[0].Depth() == 0 {
		properties = blocks[0].Properties
	}

	return &Page{
		Name:       name,
		Blocks:     NestBlocks(blocks),
		Properties: properties,
	}, nil
}

// NewPlaceholder returns a page entry that stands in for a referenced but
// unauthored name.
func NewPlaceholder(name string) *Page {
	return &Page{
		Name:          name,
		Properties:    map[string]Property{},
		IsPlaceholder: true,
	}
}

// AddBlock appends a block to the end of this page's roots.
func (p *Page) AddBlock(block *Block) {
	p.Blocks = append(p.Blocks, block)
}

// AllBlocks returns every block of the page in source (preorder) order.
func (p *Page) AllBlocks() []*Block {
	var all []*Block
	var walk func(blocks []*Block)
	walk = func(blocks []*Block) {
		for _, block := range blocks {
			all = append(all, block)
			walk(block.Branches)
		}
	}
	walk(p.Blocks)
	return all
}

// Namespace returns the parent path segment of the page name, or
// NamespaceSelf for pages without one.
func (p *Page) Namespace() string {
	return path.Dir(p.Name)
}

// IsPublic reports whether the page-level public:: property is truthy.
func (p *Page) IsPublic() bool {
	prop, ok := p.Properties["public"]
	return ok && prop.IsTrue()
}

// Tags returns the page-level tags:: property as a list, or nil.
func (p *Page) Tags() []string {
	prop, ok := p.Properties["tags"]
	if !ok {
		return nil
	}
	return prop.AsList()
}

// Links returns every page link found in this page's blocks.
func (p *Page) Links() []DirectLink {
	var gathered []DirectLink
	for _, block := range p.AllBlocks() {
		gathered = append(gathered, block.Links()...)
	}
	return gathered
}

// TagLinks returns every tag link found in this page's blocks.
func (p *Page) TagLinks() []DirectLink {
	var gathered []DirectLink
	for _, block := range p.AllBlocks() {
		gathered = append(gathered, block.TagLinks()...)
	}
	return gathered
}
