package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

func TestTierRunRepositorySaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewDefaultTierRunRepository(newTestDB(t))

	_, err := repo.FindRun(ctx, september)
	assert.ErrorIs(t, err, domain.ErrTierRunNotFound)

	started := time.Date(2026, 10, 1, 0, 0, 1, 0, time.UTC)
	require.NoError(t, repo.SaveRun(ctx, &domain.TierRun{
		ID:           "run-1",
		Period:       september.String(),
		Vendors:      3,
		Updated:      2,
		Skipped:      1,
		RowsAffected: 4,
		StartedAt:    started,
		FinishedAt:   started.Add(time.Second),
	}))

	run, err := repo.FindRun(ctx, september)
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, 2, run.Updated)
	assert.EqualValues(t, 4, run.RowsAffected)

	// a rerun of the same period replaces the record
	require.NoError(t, repo.SaveRun(ctx, &domain.TierRun{
		ID:         "run-2",
		Period:     september.String(),
		Vendors:    3,
		Updated:    3,
		StartedAt:  started.Add(time.Hour),
		FinishedAt: started.Add(time.Hour),
	}))

	run, err = repo.FindRun(ctx, september)
	require.NoError(t, err)
	assert.Equal(t, "run-2", run.ID)
	assert.Equal(t, 3, run.Updated)
}
