package repository

import (
	"context"
	"testing"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createTestCompany(t *testing.T, testDB *gorm.DB, slug string, ownerID uint) *model.Company {
	company := &model.Company{
		OwnerID:  ownerID,
		Name:     "Empresa " + slug,
		Slug:     slug,
		Category: model.CategoryClinic,
	}
	require.NoError(t, NewCompanyRepository(testDB).Create(context.Background(), company))
	return company
}

func TestCompanyRepository_CreateAndFind(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewCompanyRepository(testDB)
	ctx := context.Background()

	company := &model.Company{
		OwnerID:  7,
		Name:     "Clínica Vitro",
		Slug:     "clinica-vitro",
		Category: model.CategoryClinic,
		SocialLinks: model.SocialLinkSet{
			{Platform: "instagram", URL: "https://instagram.com/vitro"},
			{Platform: "facebook", URL: "https://facebook.com/vitro"},
		},
	}
	require.NoError(t, repo.Create(ctx, company))
	assert.NotZero(t, company.ID)

	found, err := repo.FindBySlug(ctx, "clinica-vitro")
	require.NoError(t, err)
	assert.Equal(t, company.ID, found.ID)
	assert.Equal(t, company.SocialLinks, found.SocialLinks)

	byOwner, err := repo.FindByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, byOwner, 1)

	_, err = repo.FindByID(ctx, company.ID+100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCompanyRepository_DuplicateSlug(t *testing.T) {
	testDB := setupRepositoryTest(t)
	createTestCompany(t, testDB, "optica-sur", 1)

	err := NewCompanyRepository(testDB).Create(context.Background(), &model.Company{
		OwnerID:  2,
		Name:     "Óptica Sur",
		Slug:     "optica-sur",
		Category: model.CategoryStore,
	})
	assert.Error(t, err)
}

func TestCompanyRepository_IsSlugAvailable(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewCompanyRepository(testDB)
	ctx := context.Background()
	company := createTestCompany(t, testDB, "farmacia-24", 1)

	ok, err := repo.IsSlugAvailable(ctx, "farmacia-24", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.IsSlugAvailable(ctx, "farmacia-24", company.ID)
	require.NoError(t, err)
	assert.True(t, ok, "a company never collides with itself")

	ok, err = repo.IsSlugAvailable(ctx, "farmacia-25", 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompanyRepository_UpdateKeepsName(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewCompanyRepository(testDB)
	ctx := context.Background()
	company := createTestCompany(t, testDB, "laboratorio-norte", 1)

	company.Name = "Otro nombre"
	company.Slug = "lab-norte"
	company.City = "Santiago"
	company.SocialLinks = model.SocialLinkSet{{Platform: "x", URL: "https://x.com/labnorte"}}
	require.NoError(t, repo.Update(ctx, company))

	found, err := repo.FindByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Empresa laboratorio-norte", found.Name)
	assert.Equal(t, "lab-norte", found.Slug)
	assert.Equal(t, "Santiago", found.City)
	assert.Len(t, found.SocialLinks, 1)
}

func TestStatsRepository_Counters(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewStatsRepository(testDB)
	ctx := context.Background()
	company := createTestCompany(t, testDB, "consultorio-sol", 1)

	require.NoError(t, repo.Create(ctx, company.ID))
	require.NoError(t, repo.IncrementViews(ctx, company.ID))
	require.NoError(t, repo.IncrementViews(ctx, company.ID))
	require.NoError(t, repo.IncrementClicks(ctx, company.ID))

	stats, err := repo.FindByCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ViewCount)
	assert.Equal(t, int64(1), stats.ClickCount)
}
