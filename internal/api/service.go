package api

import (
	"github.com/starford/ansuz/internal/export"
)

// Store is the export-database surface the API reads from. Consumers
// depend on this interface rather than the concrete *export.DB to
// facilitate testing with mocks.
type Store interface {
	ListPages() ([]export.PageRow, error)
	GetPage(name string) (*export.PageRow, error)
	PageBlocks(name string) ([]export.PageBlockRow, error)
	PageProperties(name string) (map[string]string, error)
	Backlinks(target string) ([]string, error)
	Links() ([]export.PageLinkRow, error)
}

// Verify *export.DB satisfies Store at compile time.
var _ Store = (*export.DB)(nil)

// Service assembles API response types from export rows.
type Service struct {
	store Store
}

// NewService creates a new Service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// PageList returns every page as list items.
func (s *Service) PageList() ([]PageListItem, error) {
	rows, err := s.store.ListPages()
	if err != nil {
		return nil, err
	}
	items := make([]PageListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, PageListItem{
			Name:          r.Name,
			IsPlaceholder: r.IsPlaceholder,
			IsPublic:      r.IsPublic,
		})
	}
	return items, nil
}

// Page returns the full detail for one page: flags, properties, and
// blocks in document order.
func (s *Service) Page(name string) (*PageDetail, error) {
	row, err := s.store.GetPage(name)
	if err != nil {
		return nil, err
	}
	props, err := s.store.PageProperties(name)
	if err != nil {
		return nil, err
	}
	blockRows, err := s.store.PageBlocks(name)
	if err != nil {
		return nil, err
	}

	blocks := make([]BlockItem, 0, len(blockRows))
	for _, b := range blockRows {
		blocks = append(blocks, BlockItem{
			UUID:      b.UUID,
			Content:   b.Content,
			IsHeading: b.IsHeading,
			Directive: b.Directive,
			Position:  b.Position,
			Depth:     b.Depth,
		})
	}

	return &PageDetail{
		Name:          row.Name,
		IsPlaceholder: row.IsPlaceholder,
		IsPublic:      row.IsPublic,
		Properties:    props,
		Blocks:        blocks,
	}, nil
}

// Backlinks returns the names of pages linking to the target. The
// target itself must exist.
func (s *Service) Backlinks(name string) (*BacklinksResponse, error) {
	if _, err := s.store.GetPage(name); err != nil {
		return nil, err
	}
	sources, err := s.store.Backlinks(name)
	if err != nil {
		return nil, err
	}
	if sources == nil {
		sources = []string{}
	}
	return &BacklinksResponse{Page: name, Backlinks: sources}, nil
}

// Links returns the whole page-to-page link graph.
func (s *Service) Links() ([]LinkItem, error) {
	rows, err := s.store.Links()
	if err != nil {
		return nil, err
	}
	items := make([]LinkItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, LinkItem{Source: r.Source, Target: r.Target})
	}
	return items, nil
}
