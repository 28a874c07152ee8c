package export

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/ansuz/internal/apperr"
)

// PageBlockRow is a block joined with its placement inside a page.
type PageBlockRow struct {
	BlockRow
	Position int
	Depth    int
}

// ListPages returns every exported page ordered by name.
func (db *DB) ListPages() ([]PageRow, error) {
	rows, err := db.conn.Query(
		`SELECT name, is_placeholder, is_public FROM pages ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("export: list pages: %w", err)
	}
	defer rows.Close()

	var out []PageRow
	for rows.Next() {
		var r PageRow
		if err := rows.Scan(&r.Name, &r.IsPlaceholder, &r.IsPublic); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetPage returns one page by name, or apperr.ErrNotFound.
func (db *DB) GetPage(name string) (*PageRow, error) {
	var r PageRow
	err := db.conn.QueryRow(
		`SELECT name, is_placeholder, is_public FROM pages WHERE name = ?`, name).
		Scan(&r.Name, &r.IsPlaceholder, &r.IsPublic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: page %q", apperr.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("export: get page: %w", err)
	}
	return &r, nil
}

// PageBlocks returns a page's blocks in document order.
func (db *DB) PageBlocks(name string) ([]PageBlockRow, error) {
	rows, err := db.conn.Query(`
		SELECT b.uuid, b.content, b.is_heading, b.directive, m.position, m.depth
		FROM in_page m JOIN blocks b ON b.uuid = m.block
		WHERE m.page = ?
		ORDER BY m.position`, name)
	if err != nil {
		return nil, fmt.Errorf("export: page blocks: %w", err)
	}
	defer rows.Close()

	var out []PageBlockRow
	for rows.Next() {
		var r PageBlockRow
		if err := rows.Scan(&r.UUID, &r.Content, &r.IsHeading, &r.Directive, &r.Position, &r.Depth); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PageProperties returns a page's properties as field → value.
func (db *DB) PageProperties(name string) (map[string]string, error) {
	rows, err := db.conn.Query(
		`SELECT property, value FROM page_has_property WHERE page = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("export: page properties: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, err
		}
		out[field] = value
	}
	return out, rows.Err()
}

// Backlinks returns the names of pages linking to the target, ordered.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(
		`SELECT DISTINCT source FROM links WHERE target = ? ORDER BY source`, target)
	if err != nil {
		return nil, fmt.Errorf("export: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Links returns every page-to-page link, ordered by source then target.
func (db *DB) Links() ([]PageLinkRow, error) {
	rows, err := db.conn.Query(
		`SELECT source, target FROM links ORDER BY source, target`)
	if err != nil {
		return nil, fmt.Errorf("export: links: %w", err)
	}
	defer rows.Close()

	var out []PageLinkRow
	for rows.Next() {
		var r PageLinkRow
		if err := rows.Scan(&r.Source, &r.Target); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
