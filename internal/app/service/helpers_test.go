package service

import (
	"context"
	"testing"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	"github.com/ikkim/directorio-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServiceTest(t *testing.T) *gorm.DB {
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
	require.NoError(t, repository.NewCompanyRepository(testDB).Create(context.Background(), company))
	require.NoError(t, repository.NewStatsRepository(testDB).Create(context.Background(), company.ID))
	return company
}

func strPtr(s string) *string {
	return &s
}
