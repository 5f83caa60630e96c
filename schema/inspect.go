package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"statstore/catalog"
	"statstore/database"
)

// ErrTableNotFound is returned when the inspected table does not exist in
// the current schema.
var ErrTableNotFound = errors.New("table not found")

// Inspect loads the live definition of a table from information_schema and
// binds it into a catalog. Columns come back in ordinal order.
func Inspect(ctx context.Context, db *database.DB, table string) (*catalog.TableCatalog, error) {
	query := `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := db.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	var descs []catalog.ColumnDesc
	for rows.Next() {
		var name, dataType, isNullable string
		if err := rows.Scan(&name, &dataType, &isNullable); err != nil {
			return nil, fmt.Errorf("failed to scan column of table %s: %w", table, err)
		}

		kind, err := kindOfPostgresType(dataType)
		if err != nil {
			return nil, fmt.Errorf("table %s, column %s: %w", table, name, err)
		}

		descs = append(descs, catalog.ColumnDesc{
			Name: name,
			Type: catalog.DataType{Kind: kind, Nullable: isNullable == "YES"},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns of table %s: %w", table, err)
	}

	if len(descs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	return catalog.NewTableCatalog(table, descs, nil)
}

func kindOfPostgresType(dataType string) (catalog.DataTypeKind, error) {
	switch strings.ToLower(dataType) {
	case "bigint":
		return catalog.KindBigint, nil
	case "integer", "smallint":
		return catalog.KindInt, nil
	case "double precision", "real":
		return catalog.KindDouble, nil
	case "timestamp without time zone", "timestamp with time zone":
		return catalog.KindTimestamp, nil
	case "character varying", "character", "text":
		return catalog.KindVarchar, nil
	case "boolean":
		return catalog.KindBoolean, nil
	default:
		return 0, fmt.Errorf("%w: %s", catalog.ErrUnsupportedType, dataType)
	}
}
