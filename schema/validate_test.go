package schema_test

import (
	"context"
	"testing"

	"statstore/repository/testutil"
	"statstore/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_MigratedDatabase(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	mismatches, err := schema.Validate(ctx, testDB.DB)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestValidate_DriftedDatabase(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	// Drift the live table away from the canonical definition
	_, err := testDB.DB.Exec(ctx, "ALTER TABLE test_table ALTER COLUMN sales SET NOT NULL")
	require.NoError(t, err)
	_, err = testDB.DB.Exec(ctx, "ALTER TABLE test_table ALTER COLUMN dt TYPE bigint")
	require.NoError(t, err)

	mismatches, err := schema.Validate(ctx, testDB.DB)
	require.NoError(t, err)
	require.Len(t, mismatches, 2)

	byColumn := map[string]schema.Mismatch{}
	for _, m := range mismatches {
		byColumn[m.Column] = m
	}

	dt, ok := byColumn["dt"]
	require.True(t, ok)
	assert.Equal(t, "int not null", dt.Want)
	assert.Equal(t, "bigint not null", dt.Got)

	sales, ok := byColumn["sales"]
	require.True(t, ok)
	assert.Equal(t, "double null", sales.Want)
	assert.Equal(t, "double not null", sales.Got)
}

func TestValidate_DroppedColumn(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	_, err := testDB.DB.Exec(ctx, "ALTER TABLE test_table DROP COLUMN update_time")
	require.NoError(t, err)

	mismatches, err := schema.Validate(ctx, testDB.DB)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "update_time", mismatches[0].Column)
	assert.Equal(t, "absent", mismatches[0].Got)
}

func TestInspect_TableNotFound(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	_, err := schema.Inspect(ctx, testDB.DB, "no_such_table")
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrTableNotFound)
}

func TestInspect_LiveTable(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	cat, err := schema.Inspect(ctx, testDB.DB, schema.TableName)
	require.NoError(t, err)

	assert.Equal(t, schema.TableName, cat.Name())
	assert.Len(t, cat.Columns(), 10)
}
