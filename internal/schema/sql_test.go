package schema

import (
	"strings"
	"testing"
)

func TestCreateSQL(t *testing.T) {
	tbl := Table{
		Name: "scans",
		Columns: []Column{
			{Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Name: "path", Type: "TEXT", NotNull: true},
			{Name: "status", Type: "TEXT", Default: "'pending'"},
			{Name: "user_id", Type: "INTEGER", References: &ForeignKey{Table: "users", Column: "id", OnDelete: "CASCADE"}},
		},
	}

	sql := tbl.CreateSQL()

	for _, want := range []string{
		`CREATE TABLE IF NOT EXISTS "scans"`,
		`"id" INTEGER PRIMARY KEY`,
		`"path" TEXT NOT NULL`,
		`"status" TEXT DEFAULT 'pending'`,
		`"user_id" INTEGER REFERENCES "users"("id") ON DELETE CASCADE`,
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("expected statement to contain %q:\n%s", want, sql)
		}
	}
}

func TestCreateSQLCompositePrimaryKey(t *testing.T) {
	tbl := Table{
		Name: "memberships",
		Columns: []Column{
			{Name: "user_id", Type: "INTEGER"},
			{Name: "group_id", Type: "INTEGER"},
		},
		PrimaryKey: []string{"user_id", "group_id"},
	}

	sql := tbl.CreateSQL()
	if !strings.Contains(sql, `PRIMARY KEY ("user_id", "group_id")`) {
		t.Fatalf("expected composite primary key clause:\n%s", sql)
	}
}

func TestIndexSQL(t *testing.T) {
	tbl := Table{
		Name: "sessions",
		Columns: []Column{
			{Name: "id", Type: "TEXT", PrimaryKey: true},
			{Name: "expires_at", Type: "TIMESTAMP", NotNull: true},
			{Name: "token", Type: "TEXT"},
		},
		Indexes: []Index{
			{Columns: []string{"expires_at"}},
			{Name: "idx_sessions_token", Columns: []string{"token"}, Unique: true},
		},
	}

	stmts := tbl.IndexSQL()
	if len(stmts) != 2 {
		t.Fatalf("expected 2 index statements, got %d", len(stmts))
	}
	if want := `CREATE INDEX IF NOT EXISTS "idx_sessions_expires_at" ON "sessions" ("expires_at")`; stmts[0] != want {
		t.Fatalf("unexpected index statement: %q", stmts[0])
	}
	if !strings.HasPrefix(stmts[1], "CREATE UNIQUE INDEX IF NOT EXISTS") {
		t.Fatalf("expected unique index statement, got %q", stmts[1])
	}
}

func TestDropSQL(t *testing.T) {
	tbl := Table{Name: "users", Columns: []Column{{Name: "id", Type: "INTEGER"}}}
	if got := tbl.DropSQL(); got != `DROP TABLE IF EXISTS "users"` {
		t.Fatalf("unexpected drop statement: %q", got)
	}
}

func TestQuoteIdentEscapesQuotes(t *testing.T) {
	if got := QuoteIdent(`weird"name`); got != `"weird""name"` {
		t.Fatalf("unexpected quoting: %q", got)
	}
}
