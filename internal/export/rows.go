package export

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/starford/ansuz/internal/graph"
	"github.com/starford/ansuz/internal/logseq"
)

// PageRow is one row in the pages table.
type PageRow struct {
	Name          string
	IsPlaceholder bool
	IsPublic      bool
}

// BlockRow is one row in the blocks table.
type BlockRow struct {
	UUID      string
	Content   string
	IsHeading bool
	Directive string
}

// MembershipRow ties a block to its page with document order and depth.
type MembershipRow struct {
	Block    string
	Page     string
	Position int
	Depth    int
}

// BranchRow is one parent-child edge in a page's block tree.
type BranchRow struct {
	UUID     string
	Parent   string
	Position int
	Depth    int
}

// PageLinkRow is one page-to-page link.
type PageLinkRow struct {
	Source string
	Target string
}

// NamespaceRow ties a page to its namespace parent.
type NamespaceRow struct {
	Page      string
	Namespace string
}

// PageTagRow ties a page to one of its tags.
type PageTagRow struct {
	Page string
	Tag  string
}

// PropertyRow is one property on a page or block owner.
type PropertyRow struct {
	Owner    string
	Property string
	Value    string
}

// BlockLinkRow is one block-to-block embed link.
type BlockLinkRow struct {
	Source string
	Target string
}

// TagLinkRow is one block-to-page tag reference.
type TagLinkRow struct {
	Source string
	Target string
	AsTag  bool
}

// ResourceRow is one distinct linked resource.
type ResourceRow struct {
	Path    string
	IsAsset bool
}

// ResourceLinkRow is one block-to-resource link.
type ResourceLinkRow struct {
	Source string
	Target string
	Label  string
}

// Snapshot is the flat, row-oriented projection of a graph, ready to be
// written in one transaction.
type Snapshot struct {
	Pages           []PageRow
	Blocks          []BlockRow
	Memberships     []MembershipRow
	Branches        []BranchRow
	PageLinks       []PageLinkRow
	Namespaces      []NamespaceRow
	PageTags        []PageTagRow
	PageProperties  []PropertyRow
	BlockProperties []PropertyRow
	BlockLinks      []BlockLinkRow
	TagLinks        []TagLinkRow
	Resources       []ResourceRow
	ResourceLinks   []ResourceLinkRow
}

// PrepareText flattens block text for single-value storage: escaped
// dollars are unescaped, backslashes doubled, newlines folded to a
// literal \n, and double quotes replaced with asterisks.
func PrepareText(text string) string {
	text = strings.ReplaceAll(text, `\$`, "$")
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, "\n", `\\n`)
	return strings.ReplaceAll(text, `"`, "*")
}

// Collect projects a graph into flat rows. Pages are visited in name
// order and blocks in document order, so repeated exports of the same
// graph produce identical row sequences. A block whose link syntax is
// malformed contributes its other rows and a warning.
func Collect(g *graph.Graph, logger *slog.Logger) *Snapshot {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Snapshot{}

	names := make([]string, 0, len(g.Pages))
	for name := range g.Pages {
		names = append(names, name)
	}
	sort.Strings(names)

	seenResources := make(map[string]bool)
	var resourceOrder []string

	// Authors can paste the same id:: into several blocks; the first
	// occurrence wins and repeats are reported, so one sloppy page
	// cannot abort the whole export on a uniqueness constraint.
	seenBlocks := make(map[string]bool)
	seenEdges := make(map[branchKey]bool)

	for _, name := range names {
		page := g.Pages[name]

		s.Pages = append(s.Pages, PageRow{
			Name:          page.Name,
			IsPlaceholder: page.IsPlaceholder,
			IsPublic:      page.IsPublic(),
		})

		if ns := page.Namespace(); ns != logseq.NamespaceSelf {
			s.Namespaces = append(s.Namespaces, NamespaceRow{Page: page.Name, Namespace: ns})
		}
		for _, link := range page.Links() {
			s.PageLinks = append(s.PageLinks, PageLinkRow{Source: page.Name, Target: link.Target})
		}
		for _, tag := range page.Tags() {
			s.PageTags = append(s.PageTags, PageTagRow{Page: page.Name, Tag: tag})
		}
		propNames := make([]string, 0, len(page.Properties))
		for field := range page.Properties {
			propNames = append(propNames, field)
		}
		sort.Strings(propNames)
		for _, field := range propNames {
			s.PageProperties = append(s.PageProperties, PropertyRow{
				Owner:    page.Name,
				Property: field,
				Value:    PrepareText(page.Properties[field].Value),
			})
		}

		positions := make(map[string]int)
		seenInPage := make(map[string]bool)
		for position, block := range page.AllBlocks() {
			id := block.ID.String()
			positions[id] = position

			if !seenInPage[id] {
				seenInPage[id] = true
				s.Memberships = append(s.Memberships, MembershipRow{
					Block:    id,
					Page:     page.Name,
					Position: position,
					Depth:    block.Depth(),
				})
			}

			if seenBlocks[id] {
				logger.Warn("export: duplicate block id",
					slog.String("page", page.Name), slog.String("uuid", id))
				continue
			}
			seenBlocks[id] = true

			s.Blocks = append(s.Blocks, BlockRow{
				UUID:      id,
				Content:   block.Content(),
				IsHeading: block.IsHeading(),
				Directive: block.Directive,
			})

			blockProps := make([]string, 0, len(block.Properties))
			for field := range block.Properties {
				blockProps = append(blockProps, field)
			}
			sort.Strings(blockProps)
			for _, field := range blockProps {
				s.BlockProperties = append(s.BlockProperties, PropertyRow{
					Owner:    id,
					Property: field,
					Value:    block.Properties[field].Value,
				})
			}

			for _, link := range block.TagLinks() {
				s.TagLinks = append(s.TagLinks, TagLinkRow{Source: id, Target: link.Target, AsTag: true})
			}

			blockLinks, err := block.BlockLinks()
			if err != nil {
				logger.Warn("export: bad block link",
					slog.String("page", page.Name), slog.String("error", err.Error()))
			}
			for _, link := range blockLinks {
				// Only keep references whose target block exists.
				if _, ok := g.Blocks[link.Target]; !ok {
					continue
				}
				s.BlockLinks = append(s.BlockLinks, BlockLinkRow{
					Source: id,
					Target: link.Target.String(),
				})
			}

			resourceLinks, err := block.ResourceLinks()
			if err != nil {
				logger.Warn("export: bad resource link",
					slog.String("page", page.Name), slog.String("error", err.Error()))
			}
			for _, link := range resourceLinks {
				if _, ok := seenResources[link.Target]; !ok {
					resourceOrder = append(resourceOrder, link.Target)
				}
				seenResources[link.Target] = g.HasAsset(link.Target)
				s.ResourceLinks = append(s.ResourceLinks, ResourceLinkRow{
					Source: id,
					Target: link.Target,
					Label:  link.LinkText,
				})
			}
		}

		// Tree edges: each nested child points at its parent block.
		for _, root := range page.Blocks {
			collectBranches(root, positions, seenEdges, s)
		}
	}

	for _, path := range resourceOrder {
		s.Resources = append(s.Resources, ResourceRow{Path: path, IsAsset: seenResources[path]})
	}

	return s
}

type branchKey struct {
	child  string
	parent string
}

func collectBranches(parent *logseq.Block, positions map[string]int, seen map[branchKey]bool, s *Snapshot) {
	parentID := parent.ID.String()
	for _, child := range parent.Branches {
		childID := child.ID.String()
		key := branchKey{child: childID, parent: parentID}
		if !seen[key] {
			seen[key] = true
			s.Branches = append(s.Branches, BranchRow{
				UUID:     childID,
				Parent:   parentID,
				Position: positions[childID],
				Depth:    child.Depth(),
			})
		}
		collectBranches(child, positions, seen, s)
	}
}
