package service

import (
	"context"
	"errors"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrProductNotFound = apperrors.NotFoundError(apperrors.CollectionItemNotFound, "No encontramos el producto")

// PublicProfile is everything the public page of a company renders.
type PublicProfile struct {
	Company  *model.Company        `json:"company"`
	Links    []model.SocialLink    `json:"links"`
	Products []model.Product       `json:"products"`
	Media    *model.MediaSlots     `json:"media"`
	Hours    []model.BusinessHour  `json:"hours"`
	Reviews  []model.CompanyReview `json:"reviews"`
	Blogs    []model.Blog          `json:"blogs"`
	Stats    *model.CompanyStats   `json:"stats,omitempty"`
}

type PublicService interface {
	// GetProfile loads the public page and counts a view.
	GetProfile(ctx context.Context, slug string) (*PublicProfile, error)
	// FindCompany resolves a public slug without counting a view.
	FindCompany(ctx context.Context, slug string) (*model.Company, error)
	// ClickLink counts a click on the link and on its company.
	ClickLink(ctx context.Context, linkID uint) (*model.SocialLink, error)
	ClickProduct(ctx context.Context, productID uint) (*model.Product, error)
	OwnedCompanies(ctx context.Context, ownerID uint) ([]model.Company, error)
}

type publicService struct {
	db          *gorm.DB
	companyRepo repository.CompanyRepository
	linkRepo    repository.SocialLinkRepository
	productRepo repository.ProductRepository
	imageRepo   repository.CompanyImageRepository
	hourRepo    repository.BusinessHourRepository
	reviewRepo  repository.ReviewRepository
	blogRepo    repository.BlogRepository
	statsRepo   repository.StatsRepository
}

func NewPublicService(db *gorm.DB) PublicService {
	return &publicService{
		db:          db,
		companyRepo: repository.NewCompanyRepository(db),
		linkRepo:    repository.NewSocialLinkRepository(db),
		productRepo: repository.NewProductRepository(db),
		imageRepo:   repository.NewCompanyImageRepository(db),
		hourRepo:    repository.NewBusinessHourRepository(db),
		reviewRepo:  repository.NewReviewRepository(db),
		blogRepo:    repository.NewBlogRepository(db),
		statsRepo:   repository.NewStatsRepository(db),
	}
}

func (s *publicService) FindCompany(ctx context.Context, slug string) (*model.Company, error) {
	company, err := s.companyRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, apperrors.NewTransportError("load company", err)
	}
	return company, nil
}

func (s *publicService) GetProfile(ctx context.Context, slug string) (*PublicProfile, error) {
	company, err := s.FindCompany(ctx, slug)
	if err != nil {
		return nil, err
	}

	profile := &PublicProfile{Company: company}
	if profile.Links, err = s.linkRepo.FindByCompany(ctx, company.ID, true); err != nil {
		return nil, apperrors.NewTransportError("load links", err)
	}
	if profile.Products, err = s.productRepo.FindByCompany(ctx, company.ID, true); err != nil {
		return nil, apperrors.NewTransportError("load products", err)
	}
	images, err := s.imageRepo.FindByCompany(ctx, company.ID)
	if err != nil {
		return nil, apperrors.NewTransportError("load images", err)
	}
	profile.Media = buildSlots(images)
	if profile.Hours, err = s.hourRepo.FindByCompany(ctx, company.ID); err != nil {
		return nil, apperrors.NewTransportError("load hours", err)
	}
	if profile.Reviews, err = s.reviewRepo.FindByCompany(ctx, company.ID, true); err != nil {
		return nil, apperrors.NewTransportError("load reviews", err)
	}
	if profile.Blogs, err = s.blogRepo.FindByCompany(ctx, company.ID, true); err != nil {
		return nil, apperrors.NewTransportError("load blogs", err)
	}

	// a lost view never fails the page
	if err := s.statsRepo.IncrementViews(ctx, company.ID); err != nil {
		logger.Warn("Failed to count profile view", map[string]interface{}{
			"company_id": company.ID,
			"error":      err.Error(),
		})
	}
	if stats, err := s.statsRepo.FindByCompany(ctx, company.ID); err == nil {
		profile.Stats = stats
	}
	return profile, nil
}

func (s *publicService) ClickLink(ctx context.Context, linkID uint) (*model.SocialLink, error) {
	link, err := s.linkRepo.FindByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, apperrors.NewTransportError("load link", err)
	}
	if !link.IsActive {
		return nil, ErrLinkNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewSocialLinkRepository(tx).IncrementClicks(ctx, link.ID); err != nil {
			return err
		}
		return repository.NewStatsRepository(tx).IncrementClicks(ctx, link.CompanyID)
	})
	if err != nil {
		return nil, apperrors.NewTransportError("count click", err)
	}
	link.ClickCount++
	return link, nil
}

func (s *publicService) ClickProduct(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, apperrors.NewTransportError("load product", err)
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewProductRepository(tx).IncrementClicks(ctx, product.ID); err != nil {
			return err
		}
		return repository.NewStatsRepository(tx).IncrementClicks(ctx, product.CompanyID)
	})
	if err != nil {
		return nil, apperrors.NewTransportError("count click", err)
	}
	product.ClickCount++
	return product, nil
}

func (s *publicService) OwnedCompanies(ctx context.Context, ownerID uint) ([]model.Company, error) {
	companies, err := s.companyRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.NewTransportError("load companies", err)
	}
	return companies, nil
}
