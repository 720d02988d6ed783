package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	"github.com/ikkim/directorio-backend/internal/app/service"
	"github.com/ikkim/directorio-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepScheduler_RunOnce(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	ctx := context.Background()

	companyRepo := repository.NewCompanyRepository(testDB)
	company := &model.Company{OwnerID: 7, Name: "Vitro", Slug: "vitro", Category: model.CategoryClinic}
	require.NoError(t, companyRepo.Create(ctx, company))

	drafts := repository.NewMemoryDraftStore()
	require.NoError(t, drafts.Save(ctx, &model.WizardSession{
		ID:        "stale",
		Mode:      model.WizardCreate,
		Step:      model.StepBasicInfo,
		UpdatedAt: time.Now().Add(-100 * time.Hour),
	}))
	require.NoError(t, drafts.Save(ctx, &model.WizardSession{
		ID:        "fresh",
		Mode:      model.WizardCreate,
		Step:      model.StepBasicInfo,
		UpdatedAt: time.Now(),
	}))

	workspaces := service.NewWorkspaceService(companyRepo, repository.NewSocialLinkRepository(testDB), repository.NewProductRepository(testDB))
	_, err = workspaces.Open(ctx, 7, company.ID)
	require.NoError(t, err)

	s := NewSweepScheduler("@every 1m", drafts, workspaces, 72*time.Hour, 30*time.Minute)

	swept, idle := s.RunOnce(ctx)
	assert.Equal(t, 1, swept)
	assert.Equal(t, 0, idle)

	_, err = drafts.Load(ctx, "stale")
	assert.ErrorIs(t, err, repository.ErrDraftNotFound)
	_, err = drafts.Load(ctx, "fresh")
	assert.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, idle = s.RunOnce(ctx)
	assert.Equal(t, 1, idle)
}

func TestSweepScheduler_RejectsBadSchedule(t *testing.T) {
	s := NewSweepScheduler("every five minutes", repository.NewMemoryDraftStore(), nil, time.Hour, time.Hour)
	assert.Error(t, s.Start())
}
