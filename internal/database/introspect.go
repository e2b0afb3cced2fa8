package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/schemactl/schemactl/internal/schema"
)

// TableNames returns the user tables present in the database, sorted
// by name. SQLite's internal tables are excluded.
func (db *DB) TableNames(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name FROM sqlite_schema
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return names, nil
}

// TableExists reports whether a user table with the given name exists.
func (db *DB) TableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_schema
		WHERE type = 'table' AND name = ?
	`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %q: %w", name, err)
	}
	return count > 0, nil
}

// ColumnNames returns the column names of a table in declaration
// order, via PRAGMA table_info.
func (db *DB) ColumnNames(ctx context.Context, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+schema.QuoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %q: %w", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info for %q: %w", table, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns of %q: %w", table, err)
	}
	return names, nil
}

// TableStatus reports how one registered table compares to the live
// database.
type TableStatus struct {
	Name           string
	Present        bool
	MissingColumns []string
}

// SchemaStatus compares every registered table against the database
// and reports, per table, whether it exists and which registered
// columns it lacks. Extra columns in the database are not reported;
// ensure never removes anything.
func (db *DB) SchemaStatus(ctx context.Context, reg *schema.Registry) ([]TableStatus, error) {
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema registry: %w", err)
	}

	var out []TableStatus
	for _, t := range reg.Tables() {
		status := TableStatus{Name: t.Name}

		exists, err := db.TableExists(ctx, t.Name)
		if err != nil {
			return nil, err
		}
		status.Present = exists

		if exists {
			have, err := db.ColumnNames(ctx, t.Name)
			if err != nil {
				return nil, err
			}
			haveSet := make(map[string]bool, len(have))
			for _, name := range have {
				haveSet[name] = true
			}
			for _, c := range t.Columns {
				if !haveSet[c.Name] {
					status.MissingColumns = append(status.MissingColumns, c.Name)
				}
			}
		}

		out = append(out, status)
	}
	return out, nil
}
