package catalog

// ColumnID is the position of a column within its table, starting at 0.
type ColumnID int

// ColumnDesc describes a single column: its name, type, and whether it is
// part of the table's primary key.
type ColumnDesc struct {
	Name    string
	Type    DataType
	Primary bool
}

// ColumnCatalog is a column bound into a table, with its assigned id.
type ColumnCatalog struct {
	ID   ColumnID
	Desc ColumnDesc
}
