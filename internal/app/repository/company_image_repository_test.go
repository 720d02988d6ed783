package repository

import (
	"context"
	"testing"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyImageRepository_SlotLifecycle(t *testing.T) {
	testDB := setupRepositoryTest(t)
	company := createTestCompany(t, testDB, "centro-medico", 1)
	repo := NewCompanyImageRepository(testDB)
	ctx := context.Background()

	logo := &model.CompanyImage{
		CompanyID:   company.ID,
		ImageType:   model.ImageLogo,
		URL:         "https://cdn/1/logo-1.png",
		StoragePath: "1/logo-1.png",
		ContentType: "image/png",
		Size:        100,
	}
	require.NoError(t, repo.Create(ctx, logo))

	logo.URL = "https://cdn/1/logo-2.png"
	logo.StoragePath = "1/logo-2.png"
	logo.Size = 200
	require.NoError(t, repo.Replace(ctx, logo))

	logos, err := repo.FindBySlot(ctx, company.ID, model.ImageLogo)
	require.NoError(t, err)
	require.Len(t, logos, 1)
	assert.Equal(t, logo.ID, logos[0].ID)
	assert.Equal(t, "1/logo-2.png", logos[0].StoragePath)

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, &model.CompanyImage{
			CompanyID:   company.ID,
			ImageType:   model.ImageGallery,
			URL:         "u",
			StoragePath: "p",
		}))
	}
	all, err := repo.FindByCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, repo.Delete(ctx, company.ID, logo.ID))
	logos, err = repo.FindBySlot(ctx, company.ID, model.ImageLogo)
	require.NoError(t, err)
	assert.Empty(t, logos)
}
