// Package logseq parses outline-structured Logseq page text into a tree of
// typed blocks: lines are classified, grouped into same-depth runs, built
// into blocks, and nested by indentation depth.
package logseq

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	pageLinkRe     = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	blockLinkRe    = regexp.MustCompile(`\(\(([^)]+)\)\)`)
	tagLinkRe      = regexp.MustCompile(`#(?:\[\[([^\]]+)\]\]|([A-Za-z0-9][A-Za-z0-9_/-]*))`)
	resourceLinkRe = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)]+)\)`)
)

// Line is a single processed line of text from a Logseq page. Lines exist
// only long enough to build a Block and are discarded afterward.
type Line struct {
	// Raw is the exact source line, unmodified.
	Raw string
	// Content is Raw with indentation and block markers stripped.
	Content string
	// Depth counts indent characters, plus one when the line opens or
	// continues a block.
	Depth int
	// IsBlockOpener reports whether the line starts a new branch block.
	IsBlockOpener bool
}

// ParseLine classifies a single line of source text. The input must not
// carry a trailing newline.
func ParseLine(source string) Line {
	content := source
	depth := 0
	for len(content) > 0 && content[0] == markBlockIndent {
		content = content[1:]
		depth++
	}

	opener := strings.HasPrefix(content, markBlockOpener)

	switch {
	case content == markBlockOpener:
		// Empty branch: a bare opener with nothing after it.
		content = ""
		depth++
	case opener:
		content = stripMarker(content)
		depth++
	case strings.HasPrefix(content, markBlockContinuation):
		content = stripMarker(content)
		depth++
	}

	return Line{
		Raw:           source,
		Content:       content,
		Depth:         depth,
		IsBlockOpener: opener,
	}
}

// ParseLines classifies each line of source text in order.
func ParseLines(sources []string) []Line {
	lines := make([]Line, len(sources))
	for i, source := range sources {
		lines[i] = ParseLine(source)
	}
	return lines
}

// stripMarker drops the marker and its separator from the front of a line.
func stripMarker(s string) string {
	if len(s) < 2 {
		return ""
	}
	return s[2:]
}

// IsCodeFence reports whether the line toggles a code block boundary.
func (l Line) IsCodeFence() bool {
	return strings.HasPrefix(l.Content, markCodeFence)
}

// IsProperty reports whether the line holds a block property. A fence
// line is never a property, even when it contains the separator.
func (l Line) IsProperty() bool {
	return strings.Contains(l.Content, markProperty) && !l.IsCodeFence()
}

// IsDirectiveOpener reports whether the line opens a directive region.
func (l Line) IsDirectiveOpener() bool {
	return strings.HasPrefix(l.Content, markDirectiveOpener)
}

// IsDirectiveCloser reports whether the line closes a directive region.
func (l Line) IsDirectiveCloser() bool {
	return strings.HasPrefix(l.Content, markDirectiveCloser)
}

// IsContent reports whether the line contributes to rendered block
// content. Property and directive-marker lines do not; an empty line does.
func (l Line) IsContent() bool {
	if l.IsProperty() {
		return false
	}
	if l.IsDirectiveOpener() || l.IsDirectiveCloser() {
		return false
	}
	return true
}

// IsEmpty reports whether the line carries no content.
func (l Line) IsEmpty() bool {
	return l.Content == ""
}

// Directive returns the name of the directive this line opens or closes,
// or the empty string for ordinary lines.
func (l Line) Directive() string {
	if !l.IsDirectiveOpener() && !l.IsDirectiveCloser() {
		return ""
	}
	parts := strings.Split(l.Content, markDirectiveSplit)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// AsProperty parses the line as a Property.
func (l Line) AsProperty() (Property, error) {
	if !l.IsProperty() {
		return Property{}, fmt.Errorf("%w: %q", ErrNotProperty, l.Raw)
	}
	return LoadProperty(l.Content)
}

// Links returns the page links authored in this line's content. Spans
// preceded by a backtick (inline code) or a hash (tag form) are excluded.
func (l Line) Links() []DirectLink {
	var links []DirectLink
	for _, m := range pageLinkRe.FindAllStringSubmatchIndex(l.Content, -1) {
		if precededByAny(l.Content, m[0], '`', '#') {
			continue
		}
		links = append(links, PageLink(l.Content[m[2]:m[3]]))
	}
	return links
}

// TagLinks returns the tag links authored in this line's content, covering
// both the bare #word form and the #[[bracketed]] form. Matches touching a
// backtick on either side are excluded. Every tag link labels itself with
// its target.
func (l Line) TagLinks() []DirectLink {
	var links []DirectLink
	for _, m := range tagLinkRe.FindAllStringSubmatchIndex(l.Content, -1) {
		if precededByAny(l.Content, m[0], '`') || followedBy(l.Content, m[1], '`') {
			continue
		}
		target := submatch(l.Content, m, 1)
		if target == "" {
			target = submatch(l.Content, m, 2)
		}
		if target == "" {
			continue
		}
		links = append(links, TagLink(target))
	}
	return links
}

// BlockLinks returns the block links authored in this line's content. A
// span whose target is not a parseable UUID is a hard error.
func (l Line) BlockLinks() ([]BlockLink, error) {
	var links []BlockLink
	for _, m := range blockLinkRe.FindAllStringSubmatchIndex(l.Content, -1) {
		if precededByAny(l.Content, m[0], '`') {
			continue
		}
		link, err := ParseBlockLink(l.Content[m[2]:m[3]])
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", l.Raw, err)
		}
		links = append(links, link)
	}
	return links, nil
}

// ResourceLinks returns the markdown-style resource links in this line's
// content, flagging ![...](...) forms as embeds.
func (l Line) ResourceLinks() ([]ResourceLink, error) {
	var links []ResourceLink
	for _, m := range resourceLinkRe.FindAllStringSubmatchIndex(l.Content, -1) {
		embed := submatch(l.Content, m, 1) == "!"
		label := submatch(l.Content, m, 2)
		target := submatch(l.Content, m, 3)
		link, err := NewResourceLink(target, label, embed)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", l.Raw, err)
		}
		links = append(links, link)
	}
	return links, nil
}

// precededByAny reports whether the character before position idx is one
// of the given bytes. Stands in for lookbehind, which RE2 lacks.
func precededByAny(s string, idx int, chars ...byte) bool {
	if idx == 0 {
		return false
	}
	for _, c := range chars {
		if s[idx-1] == c {
			return true
		}
	}
	return false
}

// followedBy reports whether the character at position idx is c.
func followedBy(s string, idx int, c byte) bool {
	return idx < len(s) && s[idx] == c
}

// submatch returns capture group n of an index match, or "" if unset.
func submatch(s string, m []int, n int) string {
	if 2*n+1 >= len(m) || m[2*n] < 0 {
		return ""
	}
	return s[m[2*n]:m[2*n+1]]
}
