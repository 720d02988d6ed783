package service

import (
	"context"
	"testing"

	"github.com/ikkim/directorio-backend/internal/app/repository"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogService(t *testing.T) {
	testDB := setupServiceTest(t)
	svc := NewBlogService(repository.NewCompanyRepository(testDB), repository.NewBlogRepository(testDB))
	company := createTestCompany(t, testDB, "clinica-vitro", 7)
	ctx := context.Background()

	first, err := svc.CreateBlog(ctx, 7, company.ID, BlogInput{Title: "Cómo cuidar tu piel", Content: "..."})
	require.NoError(t, err)
	assert.Equal(t, "como-cuidar-tu-piel", first.Slug)
	assert.False(t, first.IsPublished)

	publish := true
	second, err := svc.CreateBlog(ctx, 7, company.ID, BlogInput{Title: "Cómo cuidar tu piel", Publish: &publish})
	require.NoError(t, err)
	assert.Equal(t, "como-cuidar-tu-piel-2", second.Slug)
	assert.True(t, second.IsPublished)
	require.NotNil(t, second.PublishedAt)

	_, err = svc.CreateBlog(ctx, 7, company.ID, BlogInput{Title: "Otro", Slug: "como-cuidar-tu-piel"})
	var conflictErr *apperrors.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, apperrors.SlugTaken, conflictErr.Code)

	// slugs are unique per company only
	other := createTestCompany(t, testDB, "otra-empresa", 8)
	elsewhere, err := svc.CreateBlog(ctx, 8, other.ID, BlogInput{Title: "Cómo cuidar tu piel"})
	require.NoError(t, err)
	assert.Equal(t, "como-cuidar-tu-piel", elsewhere.Slug)

	_, err = svc.CreateBlog(ctx, 8, company.ID, BlogInput{Title: "Intruso"})
	assert.ErrorIs(t, err, ErrCompanyAccessDenied)

	published, err := svc.ListPublished(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, second.ID, published[0].ID)

	_, err = svc.GetPublished(ctx, company.ID, first.Slug)
	assert.ErrorIs(t, err, ErrBlogNotFound)

	_, err = svc.SetPublished(ctx, 7, company.ID, first.ID, true)
	require.NoError(t, err)
	found, err := svc.GetPublished(ctx, company.ID, first.Slug)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	updated, err := svc.UpdateBlog(ctx, 7, company.ID, first.ID, BlogInput{Title: "Cuidado de la piel", Slug: "cuidado-piel"})
	require.NoError(t, err)
	assert.Equal(t, "cuidado-piel", updated.Slug)
	assert.True(t, updated.IsPublished)

	require.NoError(t, svc.DeleteBlog(ctx, 7, company.ID, first.ID))
	assert.ErrorIs(t, svc.DeleteBlog(ctx, 7, company.ID, first.ID), ErrBlogNotFound)

	all, err := svc.ListBlogs(ctx, 7, company.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
