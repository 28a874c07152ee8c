package api

// PageListItem is a lightweight page entry in a list response.
type PageListItem struct {
	Name          string `json:"name"`
	IsPlaceholder bool   `json:"is_placeholder"`
	IsPublic      bool   `json:"is_public"`
}

// PageListResponse wraps page listings.
type PageListResponse struct {
	Pages []PageListItem `json:"pages"`
	Total int            `json:"total"`
}

// BlockItem is one block inside a page detail response, in document
// order.
type BlockItem struct {
	UUID      string `json:"uuid"`
	Content   string `json:"content"`
	IsHeading bool   `json:"is_heading"`
	Directive string `json:"directive,omitempty"`
	Position  int    `json:"position"`
	Depth     int    `json:"depth"`
}

// PageDetail is the full page response type.
type PageDetail struct {
	Name          string            `json:"name"`
	IsPlaceholder bool              `json:"is_placeholder"`
	IsPublic      bool              `json:"is_public"`
	Properties    map[string]string `json:"properties"`
	Blocks        []BlockItem       `json:"blocks"`
}

// BacklinksResponse lists the pages linking to a target page.
type BacklinksResponse struct {
	Page      string   `json:"page"`
	Backlinks []string `json:"backlinks"`
}

// LinkItem is one page-to-page edge.
type LinkItem struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// LinksResponse wraps the whole link graph.
type LinksResponse struct {
	Links []LinkItem `json:"links"`
	Total int        `json:"total"`
}
