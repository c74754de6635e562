package table

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSeparator joins parent and child keys when flattening.
const DefaultSeparator = "_"

var ErrColumnCollision = errors.New("column name collision")

// RowPredicate reports whether a row should be removed.
type RowPredicate func(row *Record) bool

// Table is an ordered set of flat rows. Columns are the union of row keys in
// first-occurrence order; a row missing a column reads as null.
//
// Every operation returns a new Table and leaves the receiver untouched.
type Table struct {
	columns []string
	rows    []*Record
}

func New(columns []string, rows []*Record) *Table {
	return &Table{
		columns: append([]string(nil), columns...),
		rows:    append([]*Record(nil), rows...),
	}
}

// Flatten merges nested objects into their parent row, joining key paths with
// sep at any depth. Arrays are kept as single values and empty objects vanish.
func Flatten(records []*Record, sep string) *Table {
	t := &Table{rows: make([]*Record, 0, len(records))}
	seen := make(map[string]struct{})

	for _, r := range records {
		flat := NewRecord()
		flattenInto(flat, "", r, sep)

		for _, k := range flat.keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			t.columns = append(t.columns, k)
		}
		t.rows = append(t.rows, flat)
	}

	return t
}

func flattenInto(dst *Record, prefix string, src *Record, sep string) {
	if src == nil {
		return
	}

	for _, k := range src.keys {
		name := k
		if prefix != "" {
			name = prefix + sep + k
		}

		v := src.vals[k]
		if nested, ok := v.Record(); ok {
			flattenInto(dst, name, nested, sep)
			continue
		}
		dst.Set(name, v)
	}
}

func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t *Table) Rows() []*Record {
	return append([]*Record(nil), t.rows...)
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Cell returns the value at row i, column col. Missing cells are null.
func (t *Table) Cell(i int, col string) Value {
	v, _ := t.rows[i].Get(col)
	return v
}

// ColumnsMatching returns the columns accepted by match, in table order.
func (t *Table) ColumnsMatching(match func(column string) bool) []string {
	var out []string
	for _, c := range t.columns {
		if match(c) {
			out = append(out, c)
		}
	}
	return out
}

// ColumnsContaining is ColumnsMatching with a substring test.
func (t *Table) ColumnsContaining(substr string) []string {
	return t.ColumnsMatching(func(column string) bool {
		return strings.Contains(column, substr)
	})
}

// DropRows removes every row for which drop returns true. A nil predicate keeps all rows.
func (t *Table) DropRows(drop RowPredicate) *Table {
	out := &Table{
		columns: t.Columns(),
		rows:    make([]*Record, 0, len(t.rows)),
	}
	for _, r := range t.rows {
		if drop != nil && drop(r) {
			continue
		}
		out.rows = append(out.rows, r)
	}
	return out
}

// DropColumns removes the named columns. Unknown names are ignored.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}

	out := &Table{
		columns: make([]string, 0, len(t.columns)),
		rows:    make([]*Record, 0, len(t.rows)),
	}
	for _, c := range t.columns {
		if _, ok := drop[c]; !ok {
			out.columns = append(out.columns, c)
		}
	}
	for _, r := range t.rows {
		out.rows = append(out.rows, r.without(drop))
	}
	return out
}

// Clean drops rows first, so the predicate still sees columns that are about to go.
func (t *Table) Clean(columnsToDrop []string, rowsToDrop RowPredicate) *Table {
	return t.DropRows(rowsToDrop).DropColumns(columnsToDrop...)
}

// Rename applies an old->new column mapping. Sources that are not columns are
// skipped; a target that would duplicate another column returns ErrColumnCollision.
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	if len(mapping) == 0 {
		return New(t.columns, t.rows), nil
	}

	columns := make([]string, 0, len(t.columns))
	owner := make(map[string]string, len(t.columns))
	for _, c := range t.columns {
		name := c
		if to, ok := mapping[c]; ok {
			name = to
		}
		if prev, ok := owner[name]; ok {
			return nil, fmt.Errorf("%w: %q and %q both map to %q", ErrColumnCollision, prev, c, name)
		}
		owner[name] = c
		columns = append(columns, name)
	}

	out := &Table{
		columns: columns,
		rows:    make([]*Record, 0, len(t.rows)),
	}
	for _, r := range t.rows {
		out.rows = append(out.rows, r.renamed(mapping))
	}
	return out, nil
}

// MissingColumns returns the names that are not columns of t.
func (t *Table) MissingColumns(names []string) []string {
	var out []string
	for _, n := range names {
		if !t.HasColumn(n) {
			out = append(out, n)
		}
	}
	return out
}
