package models

import "time"

type TierRunModel struct {
	ID           string    `gorm:"primaryKey;type:varchar(32)"`
	Period       string    `gorm:"type:varchar(7);not null;uniqueIndex:idx_tier_runs_period"`
	Vendors      int       `gorm:"not null"`
	Updated      int       `gorm:"not null"`
	Skipped      int       `gorm:"not null"`
	Failed       int       `gorm:"not null"`
	RowsAffected int64     `gorm:"not null"`
	StartedAt    time.Time `gorm:"not null"`
	FinishedAt   time.Time `gorm:"not null"`
}

func (TierRunModel) TableName() string {
	return "tier_runs"
}
