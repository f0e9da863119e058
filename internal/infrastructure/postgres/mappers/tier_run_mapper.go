package mappers

import (
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/models"
)

func ToDomainTierRun(model *models.TierRunModel) *domain.TierRun {
	return &domain.TierRun{
		ID:           model.ID,
		Period:       model.Period,
		Vendors:      model.Vendors,
		Updated:      model.Updated,
		Skipped:      model.Skipped,
		Failed:       model.Failed,
		RowsAffected: model.RowsAffected,
		StartedAt:    model.StartedAt,
		FinishedAt:   model.FinishedAt,
	}
}

func ToGORMTierRun(run *domain.TierRun) *models.TierRunModel {
	return &models.TierRunModel{
		ID:           run.ID,
		Period:       run.Period,
		Vendors:      run.Vendors,
		Updated:      run.Updated,
		Skipped:      run.Skipped,
		Failed:       run.Failed,
		RowsAffected: run.RowsAffected,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
	}
}
