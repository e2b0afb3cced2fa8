package schema

import (
	"fmt"
	"strings"
)

// Column describes a single column of a table.
type Column struct {
	Name       string      `yaml:"name"`
	Type       string      `yaml:"type"`
	PrimaryKey bool        `yaml:"primary_key,omitempty"`
	NotNull    bool        `yaml:"not_null,omitempty"`
	Unique     bool        `yaml:"unique,omitempty"`
	Default    string      `yaml:"default,omitempty"`
	References *ForeignKey `yaml:"references,omitempty"`
}

// ForeignKey points a column at a column of another table.
type ForeignKey struct {
	Table    string `yaml:"table"`
	Column   string `yaml:"column"`
	OnDelete string `yaml:"on_delete,omitempty"`
}

// Index describes a secondary index over one or more columns.
// Name may be left empty, in which case one is derived from the
// table and column names.
type Index struct {
	Name    string   `yaml:"name,omitempty"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique,omitempty"`
}

// Table describes one table: its columns in declaration order, any
// secondary indexes, and an optional composite primary key. A
// composite PrimaryKey and a column-level PrimaryKey flag are
// mutually exclusive.
type Table struct {
	Name       string   `yaml:"name"`
	Columns    []Column `yaml:"columns"`
	Indexes    []Index  `yaml:"indexes,omitempty"`
	PrimaryKey []string `yaml:"primary_key,omitempty"`
}

// Column returns the column with the given name, if declared.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the declared column names in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Validate checks the table definition for internal consistency.
func (t Table) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("table with empty name")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %q has no columns", t.Name)
	}

	seen := make(map[string]bool, len(t.Columns))
	pkFlagged := 0
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("table %q has a column with an empty name", t.Name)
		}
		if strings.TrimSpace(c.Type) == "" {
			return fmt.Errorf("table %q column %q has no type", t.Name, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("table %q declares column %q more than once", t.Name, c.Name)
		}
		seen[c.Name] = true
		if c.PrimaryKey {
			pkFlagged++
		}
		if c.References != nil {
			if c.References.Table == "" || c.References.Column == "" {
				return fmt.Errorf("table %q column %q has an incomplete foreign key", t.Name, c.Name)
			}
		}
	}

	if pkFlagged > 1 {
		return fmt.Errorf("table %q flags more than one column as primary key; use a composite primary_key instead", t.Name)
	}
	if pkFlagged > 0 && len(t.PrimaryKey) > 0 {
		return fmt.Errorf("table %q declares both a column-level and a composite primary key", t.Name)
	}
	for _, name := range t.PrimaryKey {
		if !seen[name] {
			return fmt.Errorf("table %q primary key references unknown column %q", t.Name, name)
		}
	}

	for _, idx := range t.Indexes {
		if len(idx.Columns) == 0 {
			return fmt.Errorf("table %q has an index with no columns", t.Name)
		}
		for _, name := range idx.Columns {
			if !seen[name] {
				return fmt.Errorf("table %q index %q references unknown column %q", t.Name, idx.IndexName(t.Name), name)
			}
		}
	}

	return nil
}

// IndexName returns the index name, deriving one from the table and
// column names when none was declared.
func (i Index) IndexName(table string) string {
	if i.Name != "" {
		return i.Name
	}
	return "idx_" + table + "_" + strings.Join(i.Columns, "_")
}
