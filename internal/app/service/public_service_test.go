package service

import (
	"context"
	"testing"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicService_Profile(t *testing.T) {
	testDB := setupServiceTest(t)
	svc := NewPublicService(testDB)
	company := createTestCompany(t, testDB, "clinica-vitro", 7)
	ctx := context.Background()

	linkRepo := repository.NewSocialLinkRepository(testDB)
	require.NoError(t, linkRepo.CreateBatch(ctx, []model.SocialLink{
		{CompanyID: company.ID, Title: "Segundo", URL: "https://b.cl", Position: 1, IsActive: true},
		{CompanyID: company.ID, Title: "Oculto", URL: "https://c.cl", Position: 2, IsActive: false},
		{CompanyID: company.ID, Title: "Primero", URL: "https://a.cl", Position: 0, IsActive: true},
	}))
	reviewRepo := repository.NewReviewRepository(testDB)
	require.NoError(t, reviewRepo.Create(ctx, &model.CompanyReview{CompanyID: company.ID, AuthorName: "Ana", Rating: 5, Content: "Bien"}))

	_, err := svc.GetProfile(ctx, "no-existe")
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	profile, err := svc.GetProfile(ctx, "clinica-vitro")
	require.NoError(t, err)
	require.Len(t, profile.Links, 2)
	assert.Equal(t, "Primero", profile.Links[0].Title)
	assert.Equal(t, "Segundo", profile.Links[1].Title)
	assert.Empty(t, profile.Reviews)
	assert.NotNil(t, profile.Media)
	require.NotNil(t, profile.Stats)
	assert.Equal(t, int64(1), profile.Stats.ViewCount)

	profile, err = svc.GetProfile(ctx, "clinica-vitro")
	require.NoError(t, err)
	assert.Equal(t, int64(2), profile.Stats.ViewCount)

	link, err := svc.ClickLink(ctx, profile.Links[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "https://a.cl", link.URL)
	assert.Equal(t, int64(1), link.ClickCount)

	stats, err := repository.NewStatsRepository(testDB).FindByCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ClickCount)

	hidden, err := linkRepo.FindByCompany(ctx, company.ID, false)
	require.NoError(t, err)
	_, err = svc.ClickLink(ctx, hidden[2].ID)
	assert.ErrorIs(t, err, ErrLinkNotFound)

	owned, err := svc.OwnedCompanies(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, owned, 1)
}
