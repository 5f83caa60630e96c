package models

import (
	"fmt"
	"time"
)

// UserActionStat is one row of the hourly per-user, per-action stats table.
// The informal row key is (dt, hour, user_id, action_id); the table declares
// no primary key, so duplicates are possible at the storage level.
type UserActionStat struct {
	ID         int64
	Dt         int32 // date bucket, YYYYMMDD
	Hour       int32 // 0-23
	UserID     int64
	ActionID   int64
	Sales      *float64
	Volume     *float64
	Pieces     *int64
	AddTime    time.Time
	UpdateTime time.Time
}

// StatKey identifies one hourly bucket.
type StatKey struct {
	Dt       int32
	Hour     int32
	UserID   int64
	ActionID int64
}

// Validate checks that the key addresses a real bucket: hour in 0-23 and dt
// a parseable YYYYMMDD date.
func (k StatKey) Validate() error {
	if k.Hour < 0 || k.Hour > 23 {
		return fmt.Errorf("hour %d out of range 0-23", k.Hour)
	}
	if k.Dt < 19000101 || k.Dt > 99991231 {
		return fmt.Errorf("dt %d is not a valid YYYYMMDD date", k.Dt)
	}
	if _, err := time.Parse("20060102", fmt.Sprintf("%d", k.Dt)); err != nil {
		return fmt.Errorf("dt %d is not a valid YYYYMMDD date", k.Dt)
	}
	return nil
}

// StatDelta carries additive changes for one bucket. A nil field leaves the
// corresponding column untouched, including its NULL state.
type StatDelta struct {
	Sales  *float64
	Volume *float64
	Pieces *int64
}

// UserTotals aggregates a user's metrics over a dt range, treating NULL
// metric columns as zero.
type UserTotals struct {
	UserID int64
	Rows   int64
	Sales  float64
	Volume float64
	Pieces int64
}
