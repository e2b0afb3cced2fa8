package schema

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleSchema = `
tables:
  - name: users
    columns:
      - name: id
        type: INTEGER
        primary_key: true
      - name: email
        type: TEXT
        not_null: true
        unique: true
      - name: created_at
        type: TIMESTAMP
        default: CURRENT_TIMESTAMP
  - name: sessions
    columns:
      - name: id
        type: TEXT
        primary_key: true
      - name: user_id
        type: INTEGER
        references: {table: users, column: id, on_delete: CASCADE}
      - name: expires_at
        type: TIMESTAMP
        not_null: true
    indexes:
      - columns: [expires_at]
`

func TestParse(t *testing.T) {
	reg, err := Parse([]byte(sampleSchema))
	if err != nil {
		t.Fatalf("failed to parse schema: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 tables, got %d", reg.Len())
	}

	users, ok := reg.Lookup("users")
	if !ok {
		t.Fatal("expected users table")
	}
	created, ok := users.Column("created_at")
	if !ok {
		t.Fatal("expected created_at column")
	}
	if created.Default != "CURRENT_TIMESTAMP" {
		t.Fatalf("unexpected default: %q", created.Default)
	}

	sessions, ok := reg.Lookup("sessions")
	if !ok {
		t.Fatal("expected sessions table")
	}
	userID, _ := sessions.Column("user_id")
	if userID.References == nil || userID.References.Table != "users" || userID.References.OnDelete != "CASCADE" {
		t.Fatalf("unexpected foreign key: %+v", userID.References)
	}
	if len(sessions.Indexes) != 1 {
		t.Fatalf("expected 1 index, got %d", len(sessions.Indexes))
	}

	// File order becomes registration order
	if tables := reg.Tables(); tables[0].Name != "users" || tables[1].Name != "sessions" {
		t.Fatal("file order not preserved")
	}
}

func TestParseEmptyFile(t *testing.T) {
	reg, err := Parse([]byte("tables: []\n"))
	if err != nil {
		t.Fatalf("failed to parse empty schema: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d tables", reg.Len())
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("tables: [oops")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseRejectsInvalidTable(t *testing.T) {
	if _, err := Parse([]byte("tables:\n  - name: broken\n")); err == nil {
		t.Fatal("expected validation error for table with no columns")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(sampleSchema), 0o644); err != nil {
		t.Fatalf("failed to write schema file: %v", err)
	}

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load schema file: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 tables, got %d", reg.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
