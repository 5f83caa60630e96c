package repository

import (
	"context"
	"testing"

	"statstore/models"
	"statstore/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatRepository_Insert(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStatRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful insert", func(t *testing.T) {
		stat := testutil.CreateTestStat(1, 20240115, 14, 42, 7)

		inserted, err := repo.Insert(ctx, stat)
		require.NoError(t, err)
		require.NotNil(t, inserted)

		assert.Equal(t, stat.ID, inserted.ID)
		assert.False(t, inserted.AddTime.IsZero())
		assert.False(t, inserted.UpdateTime.IsZero())
	})

	t.Run("nullable metrics stay null", func(t *testing.T) {
		stat := &models.UserActionStat{
			ID:       2,
			Dt:       20240115,
			Hour:     15,
			UserID:   42,
			ActionID: 7,
		}

		_, err := repo.Insert(ctx, stat)
		require.NoError(t, err)

		got, err := repo.GetByKey(ctx, models.StatKey{Dt: 20240115, Hour: 15, UserID: 42, ActionID: 7})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.Sales)
		assert.Nil(t, got.Volume)
		assert.Nil(t, got.Pieces)
	})

	t.Run("rejects out-of-range hour", func(t *testing.T) {
		stat := testutil.CreateTestStat(3, 20240115, 24, 42, 7)
		_, err := repo.Insert(ctx, stat)
		assert.Error(t, err)
	})

	t.Run("rejects invalid dt", func(t *testing.T) {
		stat := testutil.CreateTestStat(4, 20241399, 0, 42, 7)
		_, err := repo.Insert(ctx, stat)
		assert.Error(t, err)
	})
}

func TestStatRepository_GetByKey(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStatRepository(testDB.DB)
	ctx := context.Background()

	t.Run("bucket not found", func(t *testing.T) {
		stat, err := repo.GetByKey(ctx, models.StatKey{Dt: 20240101, Hour: 0, UserID: 1, ActionID: 1})
		require.NoError(t, err)
		assert.Nil(t, stat)
	})

	t.Run("bucket found", func(t *testing.T) {
		seed := testutil.CreateTestStat(10, 20240102, 9, 5, 3)
		_, err := repo.Insert(ctx, seed)
		require.NoError(t, err)

		stat, err := repo.GetByKey(ctx, models.StatKey{Dt: 20240102, Hour: 9, UserID: 5, ActionID: 3})
		require.NoError(t, err)
		require.NotNil(t, stat)

		assert.Equal(t, seed.ID, stat.ID)
		require.NotNil(t, stat.Sales)
		assert.InDelta(t, *seed.Sales, *stat.Sales, 1e-9)
		require.NotNil(t, stat.Pieces)
		assert.Equal(t, *seed.Pieces, *stat.Pieces)
	})

	t.Run("duplicate buckets resolve to lowest id", func(t *testing.T) {
		// No unique constraint exists, so two rows for one bucket are legal
		_, err := repo.Insert(ctx, testutil.CreateTestStat(21, 20240103, 8, 6, 2))
		require.NoError(t, err)
		_, err = repo.Insert(ctx, testutil.CreateTestStat(20, 20240103, 8, 6, 2))
		require.NoError(t, err)

		stat, err := repo.GetByKey(ctx, models.StatKey{Dt: 20240103, Hour: 8, UserID: 6, ActionID: 2})
		require.NoError(t, err)
		require.NotNil(t, stat)
		assert.Equal(t, int64(20), stat.ID)
	})
}

func TestStatRepository_AddToBucket(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStatRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates the bucket on first add", func(t *testing.T) {
		key := models.StatKey{Dt: 20240110, Hour: 12, UserID: 100, ActionID: 1}
		delta := models.StatDelta{Sales: testutil.FloatPtr(19.99), Pieces: testutil.Int64Ptr(2)}

		err := repo.AddToBucket(ctx, key, delta)
		require.NoError(t, err)

		stat, err := repo.GetByKey(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, stat)

		require.NotNil(t, stat.Sales)
		assert.InDelta(t, 19.99, *stat.Sales, 1e-9)
		require.NotNil(t, stat.Pieces)
		assert.Equal(t, int64(2), *stat.Pieces)
		// Volume was never touched
		assert.Nil(t, stat.Volume)
	})

	t.Run("accumulates into an existing bucket", func(t *testing.T) {
		key := models.StatKey{Dt: 20240110, Hour: 13, UserID: 100, ActionID: 1}

		err := repo.AddToBucket(ctx, key, models.StatDelta{Sales: testutil.FloatPtr(10), Pieces: testutil.Int64Ptr(1)})
		require.NoError(t, err)
		err = repo.AddToBucket(ctx, key, models.StatDelta{Sales: testutil.FloatPtr(2.5), Volume: testutil.FloatPtr(0.75)})
		require.NoError(t, err)

		stat, err := repo.GetByKey(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, stat)

		require.NotNil(t, stat.Sales)
		assert.InDelta(t, 12.5, *stat.Sales, 1e-9)
		require.NotNil(t, stat.Volume)
		assert.InDelta(t, 0.75, *stat.Volume, 1e-9)
		require.NotNil(t, stat.Pieces)
		assert.Equal(t, int64(1), *stat.Pieces)
	})

	t.Run("does not create duplicate rows for one bucket", func(t *testing.T) {
		key := models.StatKey{Dt: 20240110, Hour: 14, UserID: 100, ActionID: 1}

		err := repo.AddToBucket(ctx, key, models.StatDelta{Pieces: testutil.Int64Ptr(1)})
		require.NoError(t, err)
		err = repo.AddToBucket(ctx, key, models.StatDelta{Pieces: testutil.Int64Ptr(1)})
		require.NoError(t, err)

		rows, err := repo.ListByDate(ctx, 20240110)
		require.NoError(t, err)

		count := 0
		for _, row := range rows {
			if row.Hour == key.Hour && row.UserID == key.UserID && row.ActionID == key.ActionID {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("rejects out-of-range hour", func(t *testing.T) {
		err := repo.AddToBucket(ctx,
			models.StatKey{Dt: 20240110, Hour: -1, UserID: 100, ActionID: 1},
			models.StatDelta{Sales: testutil.FloatPtr(1)},
		)
		assert.Error(t, err)
	})
}

func TestStatRepository_ListByDate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStatRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Insert(ctx, testutil.CreateTestStat(1, 20240201, 10, 2, 1))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testutil.CreateTestStat(2, 20240201, 9, 1, 1))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testutil.CreateTestStat(3, 20240202, 0, 1, 1))
	require.NoError(t, err)

	rows, err := repo.ListByDate(ctx, 20240201)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by hour first
	assert.Equal(t, int32(9), rows[0].Hour)
	assert.Equal(t, int32(10), rows[1].Hour)

	empty, err := repo.ListByDate(ctx, 20240301)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStatRepository_UserTotals(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStatRepository(testDB.DB)
	ctx := context.Background()

	seed := []*models.UserActionStat{
		{ID: 1, Dt: 20240301, Hour: 8, UserID: 7, ActionID: 1, Sales: testutil.FloatPtr(10), Pieces: testutil.Int64Ptr(2)},
		{ID: 2, Dt: 20240302, Hour: 9, UserID: 7, ActionID: 2, Sales: testutil.FloatPtr(5.5), Volume: testutil.FloatPtr(1.25)},
		// NULL metrics count as zero
		{ID: 3, Dt: 20240303, Hour: 10, UserID: 7, ActionID: 1},
		// Different user, excluded
		{ID: 4, Dt: 20240302, Hour: 9, UserID: 8, ActionID: 1, Sales: testutil.FloatPtr(100)},
		// Outside the dt range, excluded
		{ID: 5, Dt: 20240401, Hour: 9, UserID: 7, ActionID: 1, Sales: testutil.FloatPtr(100)},
	}
	for _, stat := range seed {
		_, err := repo.Insert(ctx, stat)
		require.NoError(t, err)
	}

	totals, err := repo.UserTotals(ctx, 7, 20240301, 20240331)
	require.NoError(t, err)
	require.NotNil(t, totals)

	assert.Equal(t, int64(7), totals.UserID)
	assert.Equal(t, int64(3), totals.Rows)
	assert.InDelta(t, 15.5, totals.Sales, 1e-9)
	assert.InDelta(t, 1.25, totals.Volume, 1e-9)
	assert.Equal(t, int64(2), totals.Pieces)

	t.Run("no rows in range", func(t *testing.T) {
		totals, err := repo.UserTotals(ctx, 999, 20240301, 20240331)
		require.NoError(t, err)
		assert.Equal(t, int64(0), totals.Rows)
		assert.Zero(t, totals.Sales)
	})
}
