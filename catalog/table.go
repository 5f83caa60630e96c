package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateColumn is returned when two columns share a name.
	// Column names are compared case-insensitively.
	ErrDuplicateColumn = errors.New("duplicated column name")

	// ErrUnknownPrimaryKey is returned when a primary key references a
	// column id outside the table.
	ErrUnknownPrimaryKey = errors.New("primary key references unknown column")
)

// TableCatalog holds the bound definition of one table: its columns in
// declaration order and the ordered ids of its primary key columns.
type TableCatalog struct {
	name    string
	columns []ColumnCatalog
	byName  map[string]ColumnID
	pks     []ColumnID
}

// NewTableCatalog binds a table from its column descriptors. Columns are
// assigned ids in declaration order. pkIDs lists the primary key columns in
// key order; primary key columns are marked primary and forced NOT NULL.
func NewTableCatalog(name string, descs []ColumnDesc, pkIDs []ColumnID) (*TableCatalog, error) {
	t := &TableCatalog{
		name:    strings.ToLower(name),
		columns: make([]ColumnCatalog, 0, len(descs)),
		byName:  make(map[string]ColumnID, len(descs)),
	}

	for i, desc := range descs {
		desc.Name = strings.ToLower(desc.Name)
		if _, ok := t.byName[desc.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, desc.Name)
		}
		id := ColumnID(i)
		t.byName[desc.Name] = id
		t.columns = append(t.columns, ColumnCatalog{ID: id, Desc: desc})
	}

	for _, id := range pkIDs {
		if int(id) < 0 || int(id) >= len(t.columns) {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownPrimaryKey, id)
		}
		t.columns[id].Desc.Primary = true
		t.columns[id].Desc.Type.Nullable = false
		t.pks = append(t.pks, id)
	}

	// Inline PRIMARY KEY markers on the descriptors count too.
	for i := range t.columns {
		if t.columns[i].Desc.Primary {
			t.columns[i].Desc.Type.Nullable = false
			if !containsID(t.pks, t.columns[i].ID) {
				t.pks = append(t.pks, t.columns[i].ID)
			}
		}
	}

	return t, nil
}

func containsID(ids []ColumnID, id ColumnID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Name returns the lower-cased table name.
func (t *TableCatalog) Name() string {
	return t.name
}

// Columns returns the columns in declaration order.
func (t *TableCatalog) Columns() []ColumnCatalog {
	return t.columns
}

// Column looks a column up by name, case-insensitively.
func (t *TableCatalog) Column(name string) (ColumnCatalog, bool) {
	id, ok := t.byName[strings.ToLower(name)]
	if !ok {
		return ColumnCatalog{}, false
	}
	return t.columns[id], true
}

// PrimaryKeys returns the primary key columns in key order. The slice is
// empty when the table declares no primary key.
func (t *TableCatalog) PrimaryKeys() []ColumnCatalog {
	cols := make([]ColumnCatalog, 0, len(t.pks))
	for _, id := range t.pks {
		cols = append(cols, t.columns[id])
	}
	return cols
}

// String renders the catalog in a CREATE TABLE-like form, one column per
// line, for logs and the schema subcommand.
func (t *TableCatalog) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (\n", t.name)
	for i, col := range t.columns {
		fmt.Fprintf(&b, "    %s %s", col.Desc.Name, col.Desc.Type)
		if col.Desc.Primary {
			b.WriteString(" primary key")
		}
		if i < len(t.columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}
