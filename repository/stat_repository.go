package repository

import (
	"context"
	"fmt"

	"statstore/database"
	"statstore/models"

	"github.com/jackc/pgx/v5"
)

// StatRepository provides data access to the hourly user/action stats table
type StatRepository struct {
	db *database.DB
	q  queryable
}

// NewStatRepository creates a new stats repository
func NewStatRepository(db *database.DB) *StatRepository {
	return &StatRepository{db: db, q: db.Pool}
}

// Insert stores one row. The caller supplies the id since the table declares
// no generator for it. add_time and update_time come back from the database.
func (r *StatRepository) Insert(ctx context.Context, stat *models.UserActionStat) (*models.UserActionStat, error) {
	key := models.StatKey{Dt: stat.Dt, Hour: stat.Hour, UserID: stat.UserID, ActionID: stat.ActionID}
	if err := key.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO test_table (id, dt, hour, user_id, action_id, sales, volume, pieces)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING add_time, update_time
	`

	inserted := *stat
	err := r.q.QueryRow(ctx, query,
		stat.ID,
		stat.Dt,
		stat.Hour,
		stat.UserID,
		stat.ActionID,
		stat.Sales,
		stat.Volume,
		stat.Pieces,
	).Scan(&inserted.AddTime, &inserted.UpdateTime)

	if err != nil {
		return nil, fmt.Errorf("failed to insert stat row %d: %w", stat.ID, err)
	}

	return &inserted, nil
}

// GetByKey retrieves the row for one bucket, or nil when no row exists.
// Nothing prevents duplicate buckets at the storage level; the row with the
// lowest id wins.
func (r *StatRepository) GetByKey(ctx context.Context, key models.StatKey) (*models.UserActionStat, error) {
	query := `
		SELECT id, dt, hour, user_id, action_id, sales, volume, pieces, add_time, update_time
		FROM test_table
		WHERE dt = $1 AND hour = $2 AND user_id = $3 AND action_id = $4
		ORDER BY id
		LIMIT 1
	`

	var stat models.UserActionStat
	err := r.q.QueryRow(ctx, query, key.Dt, key.Hour, key.UserID, key.ActionID).Scan(
		&stat.ID,
		&stat.Dt,
		&stat.Hour,
		&stat.UserID,
		&stat.ActionID,
		&stat.Sales,
		&stat.Volume,
		&stat.Pieces,
		&stat.AddTime,
		&stat.UpdateTime,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stat for dt %d hour %d user %d action %d: %w",
			key.Dt, key.Hour, key.UserID, key.ActionID, err)
	}

	return &stat, nil
}

// AddToBucket applies an additive delta to one bucket, creating the row if
// it does not exist yet. Nil delta fields leave their columns untouched,
// including the NULL state; non-nil fields treat an existing NULL as zero.
//
// The table has no unique constraint to drive ON CONFLICT, so this runs an
// update-then-insert inside a transaction. Concurrent writers creating the
// same new bucket can still race into duplicate rows; GetByKey resolves
// duplicates by lowest id.
func (r *StatRepository) AddToBucket(ctx context.Context, key models.StatKey, delta models.StatDelta) error {
	if err := key.Validate(); err != nil {
		return err
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		updateQuery := `
			UPDATE test_table
			SET sales = CASE WHEN $5::double precision IS NULL THEN sales ELSE COALESCE(sales, 0) + $5 END,
			    volume = CASE WHEN $6::double precision IS NULL THEN volume ELSE COALESCE(volume, 0) + $6 END,
			    pieces = CASE WHEN $7::bigint IS NULL THEN pieces ELSE COALESCE(pieces, 0) + $7 END,
			    update_time = CURRENT_TIMESTAMP
			WHERE dt = $1 AND hour = $2 AND user_id = $3 AND action_id = $4
		`

		result, err := tx.Exec(ctx, updateQuery,
			key.Dt, key.Hour, key.UserID, key.ActionID,
			delta.Sales, delta.Volume, delta.Pieces,
		)
		if err != nil {
			return fmt.Errorf("failed to update bucket dt %d hour %d user %d action %d: %w",
				key.Dt, key.Hour, key.UserID, key.ActionID, err)
		}
		if result.RowsAffected() > 0 {
			return nil
		}

		// No declared id generator either; derive the next id in the same
		// transaction.
		insertQuery := `
			INSERT INTO test_table (id, dt, hour, user_id, action_id, sales, volume, pieces)
			SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3, $4, $5, $6, $7
			FROM test_table
		`

		if _, err := tx.Exec(ctx, insertQuery,
			key.Dt, key.Hour, key.UserID, key.ActionID,
			delta.Sales, delta.Volume, delta.Pieces,
		); err != nil {
			return fmt.Errorf("failed to insert bucket dt %d hour %d user %d action %d: %w",
				key.Dt, key.Hour, key.UserID, key.ActionID, err)
		}

		return nil
	})
}

// ListByDate returns all rows for one dt, ordered by hour, user, action, id.
func (r *StatRepository) ListByDate(ctx context.Context, dt int32) ([]*models.UserActionStat, error) {
	query := `
		SELECT id, dt, hour, user_id, action_id, sales, volume, pieces, add_time, update_time
		FROM test_table
		WHERE dt = $1
		ORDER BY hour, user_id, action_id, id
	`

	rows, err := r.q.Query(ctx, query, dt)
	if err != nil {
		return nil, fmt.Errorf("failed to list stats for dt %d: %w", dt, err)
	}
	defer rows.Close()

	var stats []*models.UserActionStat
	for rows.Next() {
		var stat models.UserActionStat
		if err := rows.Scan(
			&stat.ID,
			&stat.Dt,
			&stat.Hour,
			&stat.UserID,
			&stat.ActionID,
			&stat.Sales,
			&stat.Volume,
			&stat.Pieces,
			&stat.AddTime,
			&stat.UpdateTime,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stat row for dt %d: %w", dt, err)
		}
		stats = append(stats, &stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stats for dt %d: %w", dt, err)
	}

	return stats, nil
}

// UserTotals sums a user's metrics over an inclusive dt range. NULL metric
// columns count as zero.
func (r *StatRepository) UserTotals(ctx context.Context, userID int64, fromDt, toDt int32) (*models.UserTotals, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(COALESCE(sales, 0)), 0),
		       COALESCE(SUM(COALESCE(volume, 0)), 0),
		       COALESCE(SUM(COALESCE(pieces, 0)), 0)
		FROM test_table
		WHERE user_id = $1 AND dt BETWEEN $2 AND $3
	`

	totals := models.UserTotals{UserID: userID}
	err := r.q.QueryRow(ctx, query, userID, fromDt, toDt).Scan(
		&totals.Rows,
		&totals.Sales,
		&totals.Volume,
		&totals.Pieces,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to total stats for user %d: %w", userID, err)
	}

	return &totals, nil
}
