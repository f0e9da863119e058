package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/models"
)

type DefaultTierRunRepository struct {
	DB *gorm.DB
}

func NewDefaultTierRunRepository(db *gorm.DB) *DefaultTierRunRepository {
	return &DefaultTierRunRepository{DB: db}
}

func (r *DefaultTierRunRepository) FindRun(ctx context.Context, period domain.Period) (*domain.TierRun, error) {
	var run models.TierRunModel
	err := r.DB.WithContext(ctx).Where("period = ?", period.String()).Take(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTierRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tier run %s: %w", period, err)
	}
	return mappers.ToDomainTierRun(&run), nil
}

// SaveRun records the run; a manual rerun of a period replaces the previous row.
func (r *DefaultTierRunRepository) SaveRun(ctx context.Context, run *domain.TierRun) error {
	model := mappers.ToGORMTierRun(run)
	if err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "period"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"id", "vendors", "updated", "skipped", "failed", "rows_affected", "started_at", "finished_at",
		}),
	}).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save tier run %s: %w", run.Period, err)
	}
	return nil
}
