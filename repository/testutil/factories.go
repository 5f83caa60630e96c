package testutil

import (
	"statstore/models"
)

// CreateTestStat creates a stat row for one bucket with all three metrics set
func CreateTestStat(id int64, dt, hour int32, userID, actionID int64) *models.UserActionStat {
	return &models.UserActionStat{
		ID:       id,
		Dt:       dt,
		Hour:     hour,
		UserID:   userID,
		ActionID: actionID,
		Sales:    FloatPtr(100.5),
		Volume:   FloatPtr(10),
		Pieces:   Int64Ptr(3),
	}
}

// FloatPtr returns a pointer to v
func FloatPtr(v float64) *float64 {
	return &v
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}
