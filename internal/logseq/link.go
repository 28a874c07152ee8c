package logseq

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// LinkType discriminates the two flavors of DirectLink.
type LinkType string

const (
	LinkTypePage LinkType = "page"
	LinkTypeTag  LinkType = "tag"
)

// DirectLink is a reference from one graph location to a page, either as a
// plain page link or as a tag.
type DirectLink struct {
	Target   string
	LinkText string
	LinkType LinkType
}

// PageLink returns a plain link to the named page.
func PageLink(target string) DirectLink {
	return DirectLink{Target: target, LinkType: LinkTypePage}
}

// TagLink returns a tag-style link to the named page.
func TagLink(target string) DirectLink {
	return DirectLink{Target: target, LinkType: LinkTypeTag}
}

// Label returns the display title for the link target. Tag links always
// display their target, ignoring any authored label.
func (l DirectLink) Label() string {
	if l.LinkType == LinkTypeTag {
		return l.Target
	}
	if l.LinkText != "" {
		return l.LinkText
	}
	return l.Target
}

// IsTag reports whether this link was authored in tag form.
func (l DirectLink) IsTag() bool {
	return l.LinkType == LinkTypeTag
}

// BlockLink is a reference to a block by its unique identifier.
type BlockLink struct {
	Target uuid.UUID
}

// ParseBlockLink parses the inner text of a ((...)) span as a block link.
func ParseBlockLink(text string) (BlockLink, error) {
	id, err := uuid.Parse(text)
	if err != nil {
		return BlockLink{}, fmt.Errorf("%w: %q: %v", ErrInvalidBlockLink, text, err)
	}
	return BlockLink{Target: id}, nil
}

// ResourceLink is a reference to something outside the page graph: a URI
// or a local asset file.
type ResourceLink struct {
	Target   string
	LinkText string
	IsEmbed  bool
}

// NewResourceLink validates and returns a resource link. The label must be
// non-empty, and the target must be an assets path or a valid URI. Site
// feed paths of the form /.../index.xml are exempt from URI validation.
func NewResourceLink(target, label string, embed bool) (ResourceLink, error) {
	if label == "" {
		return ResourceLink{}, fmt.Errorf("%w: target %q", ErrEmptyResourceLabel, target)
	}
	if !validResourceTarget(target) {
		return ResourceLink{}, fmt.Errorf("%w: %q", ErrInvalidResource, target)
	}
	return ResourceLink{Target: target, LinkText: label, IsEmbed: embed}, nil
}

// IsAsset reports whether the target addresses a file in the graph's
// assets folder.
func (l ResourceLink) IsAsset() bool {
	return strings.HasPrefix(l.Target, PathAssets)
}

func validResourceTarget(target string) bool {
	if strings.HasPrefix(target, PathAssets) {
		return true
	}
	// Feed links point at generated site paths rather than URIs.
	if strings.HasPrefix(target, "/") && strings.HasSuffix(target, "/index.xml") {
		return true
	}
	u, err := url.Parse(target)
	return err == nil && u.IsAbs()
}
