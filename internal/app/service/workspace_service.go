package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ikkim/directorio-backend/internal/app/collection"
	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/pkg/logger"
)

type (
	LinkManager    = collection.Manager[model.SocialLink, *model.SocialLink]
	ProductManager = collection.Manager[model.Product, *model.Product]
)

// Workspace is the admin editing state of one company for one owner.
type Workspace struct {
	OwnerID   uint
	CompanyID uint
	Links     *LinkManager
	Products  *ProductManager

	mu       sync.Mutex
	lastUsed time.Time
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastUsed = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(cutoff time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed.Before(cutoff)
}

type LinkFields struct {
	Title    string  `json:"title" validate:"required,max=100"`
	URL      string  `json:"url" validate:"required,max=500"`
	Platform *string `json:"platform"`
	IsActive *bool   `json:"is_active"`
}

type ProductFields struct {
	Name        string   `json:"name" validate:"required,max=150"`
	Description string   `json:"description" validate:"max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	URL         string   `json:"url" validate:"omitempty,url"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	IsActive    *bool    `json:"is_active"`
}

type WorkspaceService interface {
	// Open returns the cached workspace or loads a fresh one from the store.
	Open(ctx context.Context, ownerID, companyID uint) (*Workspace, error)
	// Discard drops the workspace; unsaved reorders are lost.
	Discard(ownerID, companyID uint)
	// Sweep discards workspaces idle since before cutoff.
	Sweep(cutoff time.Time) int

	CommitLink(ctx context.Context, ws *Workspace, key string, fields LinkFields) (string, error)
	CommitProduct(ctx context.Context, ws *Workspace, key string, fields ProductFields) (string, error)
}

type workspaceKey struct {
	ownerID   uint
	companyID uint
}

type workspaceService struct {
	companyRepo repository.CompanyRepository
	linkRepo    repository.SocialLinkRepository
	productRepo repository.ProductRepository

	mu         sync.Mutex
	workspaces map[workspaceKey]*Workspace
	now        func() time.Time
}

func NewWorkspaceService(
	companyRepo repository.CompanyRepository,
	linkRepo repository.SocialLinkRepository,
	productRepo repository.ProductRepository,
) WorkspaceService {
	return &workspaceService{
		companyRepo: companyRepo,
		linkRepo:    linkRepo,
		productRepo: productRepo,
		workspaces:  make(map[workspaceKey]*Workspace),
		now:         time.Now,
	}
}

func (s *workspaceService) Open(ctx context.Context, ownerID, companyID uint) (*Workspace, error) {
	key := workspaceKey{ownerID: ownerID, companyID: companyID}

	s.mu.Lock()
	ws, ok := s.workspaces[key]
	s.mu.Unlock()
	if ok {
		ws.touch(s.now())
		return ws, nil
	}

	if _, err := requireOwner(ctx, s.companyRepo, ownerID, companyID); err != nil {
		return nil, err
	}
	links, err := s.linkRepo.FindByCompany(ctx, companyID, false)
	if err != nil {
		return nil, apperrors.NewTransportError("load links", err)
	}
	products, err := s.productRepo.FindByCompany(ctx, companyID, false)
	if err != nil {
		return nil, apperrors.NewTransportError("load products", err)
	}

	ws = &Workspace{
		OwnerID:   ownerID,
		CompanyID: companyID,
		Links: collection.New[model.SocialLink](&scopedStore[model.SocialLink]{
			repo:      s.linkRepo,
			companyID: companyID,
			bind:      func(l *model.SocialLink, id uint) { l.CompanyID = id },
		}, links),
		Products: collection.New[model.Product](&scopedStore[model.Product]{
			repo:      s.productRepo,
			companyID: companyID,
			bind:      func(p *model.Product, id uint) { p.CompanyID = id },
		}, products),
		lastUsed: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.workspaces[key]; ok {
		// another request loaded it first
		return existing, nil
	}
	s.workspaces[key] = ws

	logger.Info("Workspace opened", map[string]interface{}{
		"owner_id":   ownerID,
		"company_id": companyID,
		"links":      len(links),
		"products":   len(products),
	})
	return ws, nil
}

func (s *workspaceService) Discard(ownerID, companyID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workspaces, workspaceKey{ownerID: ownerID, companyID: companyID})
}

func (s *workspaceService) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0
	for key, ws := range s.workspaces {
		if ws.idleSince(cutoff) {
			delete(s.workspaces, key)
			swept++
		}
	}
	return swept
}

func (s *workspaceService) CommitLink(ctx context.Context, ws *Workspace, key string, fields LinkFields) (string, error) {
	fields.Title = strings.TrimSpace(fields.Title)
	if err := validateInput(apperrors.ValidationInvalidInput, &fields); err != nil {
		return "", err
	}

	var platform *string
	if fields.Platform != nil && strings.TrimSpace(*fields.Platform) != "" {
		p := strings.ToLower(strings.TrimSpace(*fields.Platform))
		if _, ok := model.LookupSocialPlatform(p); !ok {
			return "", apperrors.NewFieldError(apperrors.CollectionUnknownPlatform, "platform", "unknown_platform")
		}
		for _, entry := range ws.Links.Entries() {
			if entry.Key != key && entry.Item.Platform != nil && *entry.Item.Platform == p {
				return "", apperrors.NewConflict(apperrors.CollectionDuplicatePlatform, "platform", "Esa red social ya fue agregada")
			}
		}
		platform = &p
	}

	normalizeAs := model.PlatformWebsite
	if platform != nil {
		normalizeAs = *platform
	}
	url := model.NormalizeSocialURL(normalizeAs, fields.URL)

	ws.touch(s.now())
	return ws.Links.CommitEdit(ctx, key, func(l *model.SocialLink) {
		l.Title = fields.Title
		l.URL = url
		l.Platform = platform
		if fields.IsActive != nil {
			l.IsActive = *fields.IsActive
		}
	})
}

func (s *workspaceService) CommitProduct(ctx context.Context, ws *Workspace, key string, fields ProductFields) (string, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	if err := validateInput(apperrors.ValidationInvalidInput, &fields); err != nil {
		return "", err
	}

	ws.touch(s.now())
	return ws.Products.CommitEdit(ctx, key, func(p *model.Product) {
		p.Name = fields.Name
		p.Description = fields.Description
		p.Price = fields.Price
		p.URL = fields.URL
		p.ImageURL = fields.ImageURL
		if fields.IsActive != nil {
			p.IsActive = *fields.IsActive
		}
	})
}

// scopedStore binds an ordered repository to one company for a collection manager.
type scopedStore[T any] struct {
	repo      repository.OrderedRepository[T]
	companyID uint
	bind      func(item *T, companyID uint)
}

func (s *scopedStore[T]) Create(ctx context.Context, item *T) error {
	s.bind(item, s.companyID)
	return s.repo.Create(ctx, item)
}

func (s *scopedStore[T]) Update(ctx context.Context, item *T) error {
	s.bind(item, s.companyID)
	return s.repo.Update(ctx, item)
}

func (s *scopedStore[T]) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, s.companyID, id)
}

func (s *scopedStore[T]) SetActive(ctx context.Context, id uint, active bool) error {
	return s.repo.SetActive(ctx, s.companyID, id, active)
}

func (s *scopedStore[T]) SaveOrder(ctx context.Context, ids []uint) error {
	if err := s.repo.SaveOrder(ctx, s.companyID, ids); err != nil {
		return fmt.Errorf("company %d: %w", s.companyID, err)
	}
	return nil
}
