package catalog

// DataTypeKind enumerates the column types the catalog understands.
type DataTypeKind int

const (
	KindBigint DataTypeKind = iota
	KindInt
	KindDouble
	KindTimestamp
	KindVarchar
	KindBoolean
)

func (k DataTypeKind) String() string {
	switch k {
	case KindBigint:
		return "bigint"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindTimestamp:
		return "timestamp"
	case KindVarchar:
		return "varchar"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// DataType is a column type together with its nullability.
type DataType struct {
	Kind     DataTypeKind
	Nullable bool
}

func (t DataType) String() string {
	if t.Nullable {
		return t.Kind.String() + " null"
	}
	return t.Kind.String() + " not null"
}
