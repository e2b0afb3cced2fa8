package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/schemactl/schemactl/internal/schema"
)

// EnsureSchema synchronizes the database with the registry: every
// registered table and index is created if absent, and existing ones
// are left untouched. The whole pass runs in one transaction and is
// safe to call on every process start.
func (db *DB) EnsureSchema(ctx context.Context, reg *schema.Registry) error {
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("invalid schema registry: %w", err)
	}

	tables := reg.Tables()
	if len(tables) == 0 {
		log.Debug().Msg("Schema registry is empty; nothing to create")
		return nil
	}

	log.Info().Int("tables", len(tables)).Msg("Ensuring schema")

	return db.Transaction(func(tx *sql.Tx) error {
		for _, t := range tables {
			if err := db.execSchema(ctx, tx, t.CreateSQL()); err != nil {
				return fmt.Errorf("failed to create table %q: %w", t.Name, err)
			}
			for _, stmt := range t.IndexSQL() {
				if err := db.execSchema(ctx, tx, stmt); err != nil {
					return fmt.Errorf("failed to create index on %q: %w", t.Name, err)
				}
			}
		}
		return nil
	})
}

// DropSchema removes every registered table, in reverse registration
// order so dependents go before their foreign key targets. Tables not
// present are skipped. Destructive; callers gate it behind explicit
// confirmation.
func (db *DB) DropSchema(ctx context.Context, reg *schema.Registry) error {
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("invalid schema registry: %w", err)
	}

	tables := reg.Tables()
	if len(tables) == 0 {
		return nil
	}

	log.Warn().Int("tables", len(tables)).Msg("Dropping schema")

	return db.Transaction(func(tx *sql.Tx) error {
		for i := len(tables) - 1; i >= 0; i-- {
			if err := db.execSchema(ctx, tx, tables[i].DropSQL()); err != nil {
				return fmt.Errorf("failed to drop table %q: %w", tables[i].Name, err)
			}
		}
		return nil
	})
}

// execSchema runs a single schema statement, echoing it when statement
// logging is enabled.
func (db *DB) execSchema(ctx context.Context, tx *sql.Tx, stmt string) error {
	if db.echo {
		log.Debug().Str("sql", collapseWhitespace(stmt)).Msg("Executing statement")
	}
	_, err := tx.ExecContext(ctx, stmt)
	return err
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
