package schema

import "strings"

// CreateSQL returns the CREATE TABLE statement for the table. The
// statement uses IF NOT EXISTS so applying it to a database that
// already holds the table is a no-op.
func (t Table) CreateSQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(QuoteIdent(t.Name))
	b.WriteString(" (\n")

	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("\t")
		b.WriteString(c.columnSQL())
	}

	if len(t.PrimaryKey) > 0 {
		b.WriteString(",\n\tPRIMARY KEY (")
		b.WriteString(quoteIdentList(t.PrimaryKey))
		b.WriteString(")")
	}

	b.WriteString("\n)")
	return b.String()
}

// IndexSQL returns one CREATE INDEX statement per declared index,
// each using IF NOT EXISTS.
func (t Table) IndexSQL() []string {
	if len(t.Indexes) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.Indexes))
	for _, idx := range t.Indexes {
		var b strings.Builder
		b.WriteString("CREATE ")
		if idx.Unique {
			b.WriteString("UNIQUE ")
		}
		b.WriteString("INDEX IF NOT EXISTS ")
		b.WriteString(QuoteIdent(idx.IndexName(t.Name)))
		b.WriteString(" ON ")
		b.WriteString(QuoteIdent(t.Name))
		b.WriteString(" (")
		b.WriteString(quoteIdentList(idx.Columns))
		b.WriteString(")")
		out = append(out, b.String())
	}
	return out
}

// DropSQL returns the DROP TABLE statement for the table. Indexes are
// dropped implicitly with the table.
func (t Table) DropSQL() string {
	return "DROP TABLE IF EXISTS " + QuoteIdent(t.Name)
}

func (c Column) columnSQL() string {
	var b strings.Builder
	b.WriteString(QuoteIdent(c.Name))
	b.WriteString(" ")
	b.WriteString(c.Type)
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default)
	}
	if c.References != nil {
		b.WriteString(" REFERENCES ")
		b.WriteString(QuoteIdent(c.References.Table))
		b.WriteString("(")
		b.WriteString(QuoteIdent(c.References.Column))
		b.WriteString(")")
		if c.References.OnDelete != "" {
			b.WriteString(" ON DELETE ")
			b.WriteString(c.References.OnDelete)
		}
	}
	return b.String()
}

// QuoteIdent quotes a SQL identifier, doubling embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteIdentList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}
