package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xwb1989/sqlparser"
)

var (
	// ErrNotCreateTable is returned for statements other than CREATE TABLE.
	ErrNotCreateTable = errors.New("statement is not CREATE TABLE")

	// ErrMultipleInlinePrimaryKeys is returned when more than one column
	// carries an inline PRIMARY KEY marker. Composite keys must use the
	// PRIMARY KEY (...) constraint syntax.
	ErrMultipleInlinePrimaryKeys = errors.New("multiple inline primary keys; use a PRIMARY KEY constraint")

	// ErrConflictingPrimaryKeys is returned when a statement declares both
	// an inline PRIMARY KEY column and a PRIMARY KEY constraint.
	ErrConflictingPrimaryKeys = errors.New("conflicting primary key declarations")

	// ErrUnsupportedType is returned for column types the catalog has no
	// mapping for.
	ErrUnsupportedType = errors.New("unsupported column type")
)

// The parser does not export its ColumnKeyOption constants; 1 is the value
// it assigns to an inline PRIMARY KEY column.
const colKeyPrimary = 1

// ParseCreateTable binds a CREATE TABLE statement into a TableCatalog.
//
// Binding rules: column names are lower-cased and must be unique; at most
// one column may carry an inline PRIMARY KEY marker; a PRIMARY KEY (...)
// constraint supplies the key order for composite keys; primary key columns
// are implicitly NOT NULL.
func ParseCreateTable(ddl string) (*TableCatalog, error) {
	stmt, err := sqlparser.ParseStrictDDL(ddl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DDL: %w", err)
	}

	create, ok := stmt.(*sqlparser.DDL)
	if !ok || create.Action != sqlparser.CreateStr || create.TableSpec == nil {
		return nil, ErrNotCreateTable
	}
	spec := create.TableSpec

	descs := make([]ColumnDesc, 0, len(spec.Columns))
	ids := make(map[string]ColumnID, len(spec.Columns))
	var inlinePKs []ColumnID
	for i, col := range spec.Columns {
		name := col.Name.Lowered()
		if _, exists := ids[name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
		}
		ids[name] = ColumnID(i)

		kind, err := kindOfSQLType(col.Type.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}

		desc := ColumnDesc{
			Name: name,
			Type: DataType{Kind: kind, Nullable: !bool(col.Type.NotNull)},
		}
		if col.Type.KeyOpt == colKeyPrimary {
			desc.Primary = true
			inlinePKs = append(inlinePKs, ColumnID(i))
		}
		descs = append(descs, desc)
	}

	if len(inlinePKs) > 1 {
		return nil, ErrMultipleInlinePrimaryKeys
	}

	var constraintPKs []ColumnID
	for _, idx := range spec.Indexes {
		if idx.Info == nil || !idx.Info.Primary {
			continue
		}
		for _, idxCol := range idx.Columns {
			name := idxCol.Column.Lowered()
			id, exists := ids[name]
			if !exists {
				return nil, fmt.Errorf("%w: %s", ErrUnknownPrimaryKey, name)
			}
			constraintPKs = append(constraintPKs, id)
		}
	}

	if len(inlinePKs) > 0 && len(constraintPKs) > 0 {
		return nil, ErrConflictingPrimaryKeys
	}

	pks := inlinePKs
	if len(constraintPKs) > 0 {
		pks = constraintPKs
	}

	tableName := strings.ToLower(create.NewName.Name.String())
	return NewTableCatalog(tableName, descs, pks)
}

func kindOfSQLType(sqlType string) (DataTypeKind, error) {
	switch strings.ToLower(sqlType) {
	case "bigint":
		return KindBigint, nil
	case "int", "integer", "mediumint", "smallint", "tinyint":
		return KindInt, nil
	case "double", "float", "real":
		return KindDouble, nil
	case "timestamp", "datetime":
		return KindTimestamp, nil
	case "varchar", "char", "text":
		return KindVarchar, nil
	case "bool", "boolean":
		return KindBoolean, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, sqlType)
	}
}
