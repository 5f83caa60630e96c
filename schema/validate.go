package schema

import (
	"context"
	"fmt"

	"statstore/catalog"
	"statstore/database"
)

// Mismatch describes one way a live table deviates from the canonical
// definition.
type Mismatch struct {
	Column string
	Want   string
	Got    string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("column %s: want %s, got %s", m.Column, m.Want, m.Got)
}

// Validate compares the live stats table against the canonical catalog.
// An empty result means the table exists with exactly the expected columns,
// in declaration order, with matching types and nullability.
func Validate(ctx context.Context, db *database.DB) ([]Mismatch, error) {
	want, err := Expected()
	if err != nil {
		return nil, err
	}

	got, err := Inspect(ctx, db, TableName)
	if err != nil {
		return nil, err
	}

	return Diff(want, got), nil
}

// Diff walks two catalogs positionally and reports every deviation: missing
// columns, unexpected columns, reordered columns, and type or nullability
// changes.
func Diff(want, got *catalog.TableCatalog) []Mismatch {
	wcols := want.Columns()
	gcols := got.Columns()

	n := len(wcols)
	if len(gcols) > n {
		n = len(gcols)
	}

	var mismatches []Mismatch
	for i := 0; i < n; i++ {
		switch {
		case i >= len(gcols):
			mismatches = append(mismatches, Mismatch{
				Column: wcols[i].Desc.Name,
				Want:   wcols[i].Desc.Type.String(),
				Got:    "absent",
			})
		case i >= len(wcols):
			mismatches = append(mismatches, Mismatch{
				Column: gcols[i].Desc.Name,
				Want:   "absent",
				Got:    gcols[i].Desc.Type.String(),
			})
		case wcols[i].Desc.Name != gcols[i].Desc.Name:
			mismatches = append(mismatches, Mismatch{
				Column: wcols[i].Desc.Name,
				Want:   fmt.Sprintf("%s at position %d", wcols[i].Desc.Name, i+1),
				Got:    gcols[i].Desc.Name,
			})
		case wcols[i].Desc.Type != gcols[i].Desc.Type:
			mismatches = append(mismatches, Mismatch{
				Column: wcols[i].Desc.Name,
				Want:   wcols[i].Desc.Type.String(),
				Got:    gcols[i].Desc.Type.String(),
			})
		}
	}

	return mismatches
}
