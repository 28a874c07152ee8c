package export

import (
	"database/sql"
	"fmt"
)

// Write replaces the database contents with the snapshot in a single
// transaction. Readers keep seeing the previous export until commit.
func (db *DB) Write(s *Snapshot) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("export: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, table := range tables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("export: clear %s: %w", table, err)
		}
	}

	args := make([][]any, 0, len(s.Pages))
	for _, r := range s.Pages {
		args = append(args, []any{r.Name, r.IsPlaceholder, r.IsPublic})
	}
	if err := insertAll(tx, "pages",
		`INSERT INTO pages (name, is_placeholder, is_public) VALUES (?, ?, ?)`, args); err != nil {
		return err
	}

	args = args[:0]
	for _, r := range s.Blocks {
		args = append(args, []any{r.UUID, r.Content, r.IsHeading, r.Directive})
	}
	if err := insertAll(tx, "blocks",
		`INSERT INTO blocks (uuid, content, is_heading, directive) VALUES (?, ?, ?, ?)`, args); err != nil {
		return err
	}

	args = args[:0]
	for _, r := range s.Memberships {
		args = append(args, []any{r.Block, r.Page, r.Position, r.Depth})
	}
	if err := insertAll(tx, "in_page",
		`INSERT INTO in_page (block, page, position, depth) VALUES (?, ?, ?, ?)`, args); err != nil {
		return err
	}

	args = args[:0]
	for _, r := range s.Branches {
		args = append(args, []any{r.UUID, r.Parent, r.Position, r.Depth})
	}
	if err := insertAll(tx, "block_branches",
		`INSERT INTO block_branches (uuid, parent, position, depth) VALUES (?, ?, ?, ?)`, args); err != nil {
		return err
	}

	args = args[:0]
	for _, r := range s.PageLinks {
		args = append(args, []any{r.Source, r.Target})
	}
	if err := insertAll(tx, "links",
		`INSERT INTO links (source, target) VALUES (?, ?)`, args); err != nil {
		return err
	}

	args = args[:0]
	for _, r := range s.Namespaces {
		args = append(args, []any{r.Page, r.Namespace})
	}
	if err := insertAll(tx, "in_namespace",
		`INSERT INTO in_namespace (page, namespace) VALUES (?, ?)`, args); err != nil {
		return err
	}

	args = args[:0]
	for _, r := range s.PageTags {
		args = append(args, []any{r.Page, r.Tag})
	}
	if err := insertAll(tx, "page_is_tagged",
		`INSERT INTO page_is_tagged (page, tag) VALUES (?, ?)`, args); err != nil {
		return err
	}

	args = args[:0]
	for _, r := range s.PageProperties {
		args = append(args, []any{r.Owner, r.Property, r.Value})
	}
	if err := insertAll(tx, "page_has_property",
		`INSERT INTO page_has_property (page, property, value) VALUES (?, ?, ?)`, args); err != nil {
		return err
	}

	args = args[:0]
	for _, r := range s.BlockProperties {
		args = append(args, []any{r.Owner, r.Property, r.Value})
	}
	if err := insertAll(tx, "block_has_property",
		`INSERT INTO block_has_property (block, property, value) VALUES (?, ?, ?)`, args); err != nil {
		return err
	}

	args = args[:0]
	for _, r := range s.BlockLinks {
		args = append(args, []any{r.Source, r.Target})
	}
	if err := insertAll(tx, "block_links",
		`INSERT INTO block_links (source, target) VALUES (?, ?)`, args); err != nil {
		return err
	}

	args = args[:0]
	for _, r := range s.TagLinks {
		args = append(args, []any{r.Source, r.Target, r.AsTag})
	}
	if err := insertAll(tx, "tag_links",
		`INSERT INTO tag_links (source, target, as_tag) VALUES (?, ?, ?)`, args); err != nil {
		return err
	}

	args = args[:0]
	for _, r := range s.Resources {
		args = append(args, []any{r.Path, r.IsAsset})
	}
	if err := insertAll(tx, "resources",
		`INSERT INTO resources (path, is_asset) VALUES (?, ?)`, args); err != nil {
		return err
	}

	args = args[:0]
	for _, r := range s.ResourceLinks {
		args = append(args, []any{r.Source, r.Target, r.Label})
	}
	if err := insertAll(tx, "resource_links",
		`INSERT INTO resource_links (source, target, label) VALUES (?, ?, ?)`, args); err != nil {
		return err
	}

	return tx.Commit()
}

// insertAll runs one prepared insert per row.
func insertAll(tx *sql.Tx, table, query string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("export: prepare %s insert: %w", table, err)
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.Exec(row...); err != nil {
			return fmt.Errorf("export: insert %s row: %w", table, err)
		}
	}
	return nil
}
