// Package schema holds the canonical definition of the hourly user/action
// stats table and validates live databases against it.
package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"statstore/catalog"
)

// TableName is the stats table every component of this module works against.
const TableName = "test_table"

//go:embed test_table.sql
var canonicalDDL string

var (
	expectedOnce sync.Once
	expected     *catalog.TableCatalog
	expectedErr  error
)

// Expected returns the catalog bound from the canonical DDL. The result is
// cached after the first call.
func Expected() (*catalog.TableCatalog, error) {
	expectedOnce.Do(func() {
		expected, expectedErr = catalog.ParseCreateTable(canonicalDDL)
	})
	if expectedErr != nil {
		return nil, fmt.Errorf("failed to bind canonical schema: %w", expectedErr)
	}
	return expected, nil
}
