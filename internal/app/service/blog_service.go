package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"github.com/ikkim/directorio-backend/pkg/util"
	"gorm.io/gorm"
)

// maxSlugSuffix bounds the -2, -3, ... attempts for a derived post slug.
const maxSlugSuffix = 50

type BlogInput struct {
	Title    string `json:"title" validate:"required,max=200"`
	Slug     string `json:"slug" validate:"omitempty,max=80"`
	Excerpt  string `json:"excerpt" validate:"max=300"`
	Content  string `json:"content" validate:"max=50000"`
	CoverURL string `json:"cover_url" validate:"omitempty,url"`
	Publish  *bool  `json:"publish"`
}

type BlogService interface {
	CreateBlog(ctx context.Context, ownerID, companyID uint, in BlogInput) (*model.Blog, error)
	UpdateBlog(ctx context.Context, ownerID, companyID, blogID uint, in BlogInput) (*model.Blog, error)
	SetPublished(ctx context.Context, ownerID, companyID, blogID uint, published bool) (*model.Blog, error)
	DeleteBlog(ctx context.Context, ownerID, companyID, blogID uint) error
	ListBlogs(ctx context.Context, ownerID, companyID uint) ([]model.Blog, error)
	ListPublished(ctx context.Context, companyID uint) ([]model.Blog, error)
	GetPublished(ctx context.Context, companyID uint, slug string) (*model.Blog, error)
}

type blogService struct {
	companyRepo repository.CompanyRepository
	blogRepo    repository.BlogRepository
	now         func() time.Time
}

func NewBlogService(companyRepo repository.CompanyRepository, blogRepo repository.BlogRepository) BlogService {
	return &blogService{companyRepo: companyRepo, blogRepo: blogRepo, now: time.Now}
}

func (s *blogService) CreateBlog(ctx context.Context, ownerID, companyID uint, in BlogInput) (*model.Blog, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := validateInput(apperrors.ValidationInvalidInput, &in); err != nil {
		return nil, err
	}
	if _, err := requireOwner(ctx, s.companyRepo, ownerID, companyID); err != nil {
		return nil, err
	}

	slug, err := s.resolveSlug(ctx, companyID, 0, in.Title, in.Slug)
	if err != nil {
		return nil, err
	}

	blog := &model.Blog{
		CompanyID: companyID,
		Title:     in.Title,
		Slug:      slug,
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		CoverURL:  in.CoverURL,
	}
	if in.Publish != nil && *in.Publish {
		s.publish(blog, true)
	}
	if err := s.blogRepo.Create(ctx, blog); err != nil {
		if apperrors.ParseError(err, "create blog").Code == apperrors.ResourceAlreadyExists {
			return nil, apperrors.NewConflict(apperrors.SlugTaken, "slug", "Ya tienes una publicación con esa dirección")
		}
		return nil, apperrors.NewTransportError("create blog", err)
	}

	logger.Info("Blog post created", map[string]interface{}{
		"company_id": companyID,
		"blog_id":    blog.ID,
		"slug":       blog.Slug,
	})
	return blog, nil
}

func (s *blogService) UpdateBlog(ctx context.Context, ownerID, companyID, blogID uint, in BlogInput) (*model.Blog, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := validateInput(apperrors.ValidationInvalidInput, &in); err != nil {
		return nil, err
	}
	blog, err := s.ownedBlog(ctx, ownerID, companyID, blogID)
	if err != nil {
		return nil, err
	}

	// the slug only changes when asked to
	if in.Slug != "" && in.Slug != blog.Slug {
		slug, err := s.resolveSlug(ctx, companyID, blog.ID, in.Title, in.Slug)
		if err != nil {
			return nil, err
		}
		blog.Slug = slug
	}
	blog.Title = in.Title
	blog.Excerpt = in.Excerpt
	blog.Content = in.Content
	blog.CoverURL = in.CoverURL
	if in.Publish != nil {
		s.publish(blog, *in.Publish)
	}

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, apperrors.NewTransportError("update blog", err)
	}
	return blog, nil
}

func (s *blogService) SetPublished(ctx context.Context, ownerID, companyID, blogID uint, published bool) (*model.Blog, error) {
	blog, err := s.ownedBlog(ctx, ownerID, companyID, blogID)
	if err != nil {
		return nil, err
	}
	s.publish(blog, published)
	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, apperrors.NewTransportError("publish blog", err)
	}

	logger.Info("Blog post visibility changed", map[string]interface{}{
		"blog_id":   blogID,
		"published": published,
	})
	return blog, nil
}

func (s *blogService) DeleteBlog(ctx context.Context, ownerID, companyID, blogID uint) error {
	if _, err := s.ownedBlog(ctx, ownerID, companyID, blogID); err != nil {
		return err
	}
	if err := s.blogRepo.Delete(ctx, companyID, blogID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlogNotFound
		}
		return apperrors.NewTransportError("delete blog", err)
	}
	return nil
}

func (s *blogService) ListBlogs(ctx context.Context, ownerID, companyID uint) ([]model.Blog, error) {
	if _, err := requireOwner(ctx, s.companyRepo, ownerID, companyID); err != nil {
		return nil, err
	}
	blogs, err := s.blogRepo.FindByCompany(ctx, companyID, false)
	if err != nil {
		return nil, apperrors.NewTransportError("load blogs", err)
	}
	return blogs, nil
}

func (s *blogService) ListPublished(ctx context.Context, companyID uint) ([]model.Blog, error) {
	blogs, err := s.blogRepo.FindByCompany(ctx, companyID, true)
	if err != nil {
		return nil, apperrors.NewTransportError("load blogs", err)
	}
	return blogs, nil
}

func (s *blogService) GetPublished(ctx context.Context, companyID uint, slug string) (*model.Blog, error) {
	blog, err := s.blogRepo.FindBySlug(ctx, companyID, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, apperrors.NewTransportError("load blog", err)
	}
	if !blog.IsPublished {
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

func (s *blogService) ownedBlog(ctx context.Context, ownerID, companyID, blogID uint) (*model.Blog, error) {
	if _, err := requireOwner(ctx, s.companyRepo, ownerID, companyID); err != nil {
		return nil, err
	}
	blog, err := s.blogRepo.FindByID(ctx, blogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, apperrors.NewTransportError("load blog", err)
	}
	if blog.CompanyID != companyID {
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

// publish keeps the first publication date across unpublish/publish cycles.
func (s *blogService) publish(blog *model.Blog, published bool) {
	blog.IsPublished = published
	if published && blog.PublishedAt == nil {
		now := s.now()
		blog.PublishedAt = &now
	}
}

// resolveSlug validates a manual slug, or derives one from the title and
// appends -2, -3, ... until it is free within the company.
func (s *blogService) resolveSlug(ctx context.Context, companyID, excludeID uint, title, manual string) (string, error) {
	if manual != "" {
		if reason := util.CheckSlugFormat(manual); reason != "" {
			return "", apperrors.NewFieldError(apperrors.SlugInvalid, "slug", reason)
		}
		available, err := s.blogRepo.IsSlugAvailable(ctx, companyID, manual, excludeID)
		if err != nil {
			return "", apperrors.NewTransportError("check blog slug", err)
		}
		if !available {
			return "", apperrors.NewConflict(apperrors.SlugTaken, "slug", "Ya tienes una publicación con esa dirección")
		}
		return manual, nil
	}

	base := util.DeriveSlug(title)
	if reason := util.CheckSlugFormat(base); reason != "" {
		return "", apperrors.NewFieldError(apperrors.SlugInvalid, "title", reason)
	}
	for n := 1; n <= maxSlugSuffix; n++ {
		candidate := base
		if n > 1 {
			suffix := fmt.Sprintf("-%d", n)
			trimmed := base
			if len(trimmed)+len(suffix) > util.SlugMaxLength {
				trimmed = strings.TrimRight(trimmed[:util.SlugMaxLength-len(suffix)], "-")
			}
			candidate = trimmed + suffix
		}
		available, err := s.blogRepo.IsSlugAvailable(ctx, companyID, candidate, excludeID)
		if err != nil {
			return "", apperrors.NewTransportError("check blog slug", err)
		}
		if available {
			return candidate, nil
		}
	}
	return "", apperrors.NewConflict(apperrors.SlugTaken, "slug", "Ya tienes una publicación con esa dirección")
}
