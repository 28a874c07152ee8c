package logseq

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var atxHeadingRe = regexp.MustCompile(`^#{1,6}\s`)

// Block is one outline node of a page. Blocks are immutable after
// construction except for Branches, which the tree assembler populates.
type Block struct {
	// ID is the block's unique identifier: parsed from an id:: property
	// when present, generated fresh otherwise.
	ID uuid.UUID
	// Lines are the constituent source lines, all at the same depth.
	Lines []Line
	// Properties maps field name to property; last write wins within a
	// block.
	Properties map[string]Property
	// HasCodeBlock is set once any fence line is seen.
	HasCodeBlock bool
	// Directive names the fenced region this block carries, or "".
	Directive string
	// Branches are the child blocks, in source order.
	Branches []*Block
}

// FromLines builds a Block from a run of same-depth lines, tracking code
// fence and directive state across them and extracting properties.
func FromLines(lines []Line) (*Block, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyBlockLines
	}

	var (
		hasCodeBlock bool
		inCodeBlock  bool
		inDirective  bool
		directive    string
	)
	properties := make(map[string]Property)
	depth := lines[0].Depth

	for _, line := range lines {
		if line.Depth != depth {
			return nil, fmt.Errorf("%w: line %q does not match line %q",
				ErrDepthMismatch, line.Raw, lines[0].Raw)
		}

		if line.IsCodeFence() {
			hasCodeBlock = true
			inCodeBlock = !inCodeBlock
		}

		switch {
		case line.IsProperty() && !inCodeBlock:
			prop, err := line.AsProperty()
			if err != nil {
				return nil, err
			}
			properties[prop.Field] = prop
		case line.IsDirectiveOpener():
			inDirective = true
			directive = line.Directive()
		case line.IsDirectiveCloser():
			if !inDirective {
				return nil, fmt.Errorf("%w: line %q", ErrUnopenedDirective, line.Raw)
			}
			inDirective = false
		}
	}

	if inCodeBlock {
		return nil, fmt.Errorf("%w: block starting %q", ErrUnclosedCodeBlock, lines[0].Raw)
	}
	if inDirective {
		return nil, fmt.Errorf("%w: block starting %q", ErrUnclosedDirective, lines[0].Raw)
	}

	id, err := blockID(properties)
	if err != nil {
		return nil, err
	}

	return &Block{
		ID:           id,
		Lines:        lines,
		Properties:   properties,
		HasCodeBlock: hasCodeBlock,
		Directive:    directive,
	}, nil
}

// blockID adopts an authored id:: property or generates a fresh UUID.
func blockID(properties map[string]Property) (uuid.UUID, error) {
	prop, ok := properties["id"]
	if !ok {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(strings.TrimSpace(prop.Value))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q: %v", ErrInvalidBlockID, prop.Value, err)
	}
	return id, nil
}

// Depth returns the tree depth of this block.
func (b *Block) Depth() int {
	return b.Lines[0].Depth
}

// Content returns the renderable lines joined by newlines, excluding
// property and directive-marker lines.
func (b *Block) Content() string {
	var parts []string
	for _, line := range b.Lines {
		if line.IsContent() {
			parts = append(parts, line.Content)
		}
	}
	return strings.Join(parts, "\n")
}

// Raw returns every source line joined by newlines.
func (b *Block) Raw() string {
	parts := make([]string, len(b.Lines))
	for i, line := range b.Lines {
		parts[i] = line.Raw
	}
	return strings.Join(parts, "\n")
}

// IsDirective reports whether this block is a directive region.
func (b *Block) IsDirective() bool {
	return b.Directive != ""
}

// IsHeading reports whether this block marks a page section heading,
// either through an ATX prefix or a truthy heading:: property.
func (b *Block) IsHeading() bool {
	if atxHeadingRe.MatchString(b.Content()) {
		return true
	}
	prop, ok := b.Properties["heading"]
	return ok && prop.IsTrue()
}

// IsPublic reports whether this block carries a truthy public:: property.
func (b *Block) IsPublic() bool {
	prop, ok := b.Properties["public"]
	return ok && prop.IsTrue()
}

// HasProperty reports whether the named property is set on this block.
func (b *Block) HasProperty(field string) bool {
	_, ok := b.Properties[field]
	return ok
}

// Tags returns the comma-list of the tags:: property, or nil.
func (b *Block) Tags() []string {
	prop, ok := b.Properties["tags"]
	if !ok {
		return nil
	}
	return prop.AsList()
}

// Links returns all page links in this block, skipping fenced lines.
func (b *Block) Links() []DirectLink {
	var gathered []DirectLink
	b.eachUnfencedLine(func(line Line) {
		gathered = append(gathered, line.Links()...)
	})
	return gathered
}

// TagLinks returns all tag links in this block, skipping fenced lines.
func (b *Block) TagLinks() []DirectLink {
	var gathered []DirectLink
	b.eachUnfencedLine(func(line Line) {
		gathered = append(gathered, line.TagLinks()...)
	})
	return gathered
}

// BlockLinks returns all block links in this block, skipping fenced lines.
func (b *Block) BlockLinks() ([]BlockLink, error) {
	var gathered []BlockLink
	var firstErr error
	b.eachUnfencedLine(func(line Line) {
		links, err := line.BlockLinks()
		if err != nil && firstErr == nil {
			firstErr = err
			return
		}
		gathered = append(gathered, links...)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return gathered, nil
}

// ResourceLinks returns all resource links in this block, skipping fenced
// lines.
func (b *Block) ResourceLinks() ([]ResourceLink, error) {
	var gathered []ResourceLink
	var firstErr error
	b.eachUnfencedLine(func(line Line) {
		links, err := line.ResourceLinks()
		if err != nil && firstErr == nil {
			firstErr = err
			return
		}
		gathered = append(gathered, links...)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return gathered, nil
}

// eachUnfencedLine re-derives the fence toggle and visits every line that
// is not inside an active code fence. The opening fence line is skipped;
// the closing fence line is visited after the toggle clears.
func (b *Block) eachUnfencedLine(fn func(Line)) {
	inCode := false
	for _, line := range b.Lines {
		if line.IsCodeFence() {
			inCode = !inCode
		}
		if !inCode {
			fn(line)
		}
	}
}

// FindBlocks splits page source text into an ordered, flat list of blocks.
// Empty source yields a single empty block. A continuation-depth line
// before any block has opened is an error.
func FindBlocks(source string) ([]*Block, error) {
	var blocks []*Block
	var blockLines []Line

	if len(source) == 0 {
		blockLines = []Line{ParseLine(source)}
	} else {
		for _, text := range splitSourceLines(source) {
			line := ParseLine(text)

			if line.IsBlockOpener {
				if len(blockLines) > 0 {
					block, err := FromLines(blockLines)
					if err != nil {
						return nil, err
					}
					blocks = append(blocks, block)
					blockLines = nil
				}
			} else if line.Depth > 0 && len(blockLines) == 0 {
				return nil, fmt.Errorf("%w: %q", ErrBlockDepth, line.Raw)
			}

			blockLines = append(blockLines, line)
		}
	}

	if len(blockLines) > 0 {
		block, err := FromLines(blockLines)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// splitSourceLines splits source text into physical lines without a
// trailing phantom line for a final newline.
func splitSourceLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.TrimSuffix(source, "\n")
	return strings.Split(source, "\n")
}
