package logseq

import "errors"

// Sentinel errors for every way parsing can fail. Callers match with
// errors.Is; the wrapped message carries the offending line text.
var (
	// ErrBlockDepth is returned when a continuation line appears before
	// any block has opened in a page or fragment.
	ErrBlockDepth = errors.New("first line in block may not be branch continuation")

	// ErrDepthMismatch is returned when lines within one block disagree
	// on computed depth.
	ErrDepthMismatch = errors.New("line depth mismatch in block")

	// ErrEmptyBlockLines is returned when a block is built from no lines.
	ErrEmptyBlockLines = errors.New("block requires at least one line")

	// ErrUnclosedCodeBlock is returned when a block ends inside a fence.
	ErrUnclosedCodeBlock = errors.New("unclosed code block")

	// ErrUnclosedDirective is returned when a block ends with a directive
	// still open.
	ErrUnclosedDirective = errors.New("unclosed directive")

	// ErrUnopenedDirective is returned when a directive closer appears
	// with no matching opener.
	ErrUnopenedDirective = errors.New("closing an unopened directive")

	// ErrPropertyFormat is returned when property text lacks the
	// "field:: value" separator.
	ErrPropertyFormat = errors.New("property text missing separator")

	// ErrNotProperty is returned when a non-property line is read as one.
	ErrNotProperty = errors.New("line is not a property")

	// ErrInvalidBlockID is returned when an id:: value is not a UUID.
	ErrInvalidBlockID = errors.New("invalid block id")

	// ErrInvalidBlockLink is returned when a ((...)) target is not a UUID.
	ErrInvalidBlockLink = errors.New("invalid block link target")

	// ErrInvalidResource is returned when a resource target is neither an
	// assets path nor a valid URI.
	ErrInvalidResource = errors.New("invalid resource target")

	// ErrEmptyResourceLabel is returned when a resource link has no label.
	ErrEmptyResourceLabel = errors.New("resource link requires a label")
)
