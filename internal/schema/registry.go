// Package schema defines the declarative table registry: an ordered
// collection of table descriptors that the database layer synchronizes
// against a SQLite file. Registration order is significant; tables that
// reference other tables must be registered after their targets so that
// creation order satisfies foreign keys, and drop order is the reverse.
package schema

import "fmt"

// Registry is an ordered collection of table definitions.
// The zero value is not usable; call New.
type Registry struct {
	tables []Table
	byName map[string]int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Add registers a table. The table is validated on registration so
// malformed definitions are caught where they are declared.
func (r *Registry) Add(t Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, exists := r.byName[t.Name]; exists {
		return fmt.Errorf("table %q is already registered", t.Name)
	}
	r.byName[t.Name] = len(r.tables)
	r.tables = append(r.tables, t)
	return nil
}

// MustAdd is Add for static registrations where a failure is a
// programming error.
func (r *Registry) MustAdd(t Table) {
	if err := r.Add(t); err != nil {
		panic(err)
	}
}

// Tables returns the registered tables in registration order.
func (r *Registry) Tables() []Table {
	out := make([]Table, len(r.tables))
	copy(out, r.tables)
	return out
}

// Lookup returns the registered table with the given name.
func (r *Registry) Lookup(name string) (Table, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Table{}, false
	}
	return r.tables[i], true
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	return len(r.tables)
}

// Validate re-checks every registered table and cross-table references.
// An empty registry is valid.
func (r *Registry) Validate() error {
	for _, t := range r.tables {
		if err := t.Validate(); err != nil {
			return err
		}
		for _, c := range t.Columns {
			if c.References == nil {
				continue
			}
			target, ok := r.Lookup(c.References.Table)
			if !ok {
				// Allowed: the target may exist in the database
				// without being registry-managed.
				continue
			}
			if _, ok := target.Column(c.References.Column); !ok {
				return fmt.Errorf("table %q column %q references unknown column %s.%s",
					t.Name, c.Name, c.References.Table, c.References.Column)
			}
		}
	}
	return nil
}
