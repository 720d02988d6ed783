package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	apperrors "github.com/ikkim/directorio-backend/internal/errors"
	"github.com/ikkim/directorio-backend/internal/storage"
	"github.com/ikkim/directorio-backend/pkg/logger"
	"gorm.io/gorm"
)

type MediaPurpose string

const (
	PurposeGeneral MediaPurpose = "general"
	// PurposePortrait is a headshot; it gets the tighter size limit.
	PurposePortrait MediaPurpose = "portrait"
)

type MediaLimits struct {
	GalleryCapacity  int
	MaxImageBytes    int64
	MaxPortraitBytes int64
}

func DefaultMediaLimits() MediaLimits {
	return MediaLimits{
		GalleryCapacity:  3,
		MaxImageBytes:    5 * 1024 * 1024,
		MaxPortraitBytes: 800 * 1024,
	}
}

type UploadInput struct {
	Slot        model.ImageType
	Purpose     MediaPurpose
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type MediaService interface {
	// Upload stores a file in a slot. logo and cover are replaced in place;
	// gallery appends until it is full.
	Upload(ctx context.Context, ownerID, companyID uint, in UploadInput) (*model.CompanyImage, error)
	Remove(ctx context.Context, ownerID, companyID, imageID uint) error
	Slots(ctx context.Context, companyID uint) (*model.MediaSlots, error)
}

type mediaService struct {
	companyRepo repository.CompanyRepository
	imageRepo   repository.CompanyImageRepository
	blobs       storage.BlobStore
	limits      MediaLimits
	now         func() time.Time
}

func NewMediaService(
	companyRepo repository.CompanyRepository,
	imageRepo repository.CompanyImageRepository,
	blobs storage.BlobStore,
	limits MediaLimits,
) MediaService {
	return &mediaService{
		companyRepo: companyRepo,
		imageRepo:   imageRepo,
		blobs:       blobs,
		limits:      limits,
		now:         time.Now,
	}
}

// validateUpload runs before any store or blob call.
func (s *mediaService) validateUpload(in UploadInput) error {
	if !in.Slot.Valid() {
		return ErrInvalidSlot
	}
	if in.Body == nil || in.Size <= 0 {
		return apperrors.NewFieldError(apperrors.ValidationRequired, "file", "required")
	}
	if err := storage.ValidateContentType(in.ContentType); err != nil {
		return &apperrors.ValidationError{
			Code:    apperrors.UploadInvalidFileType,
			Message: "Solo se permiten imágenes JPG, PNG, GIF o WebP",
			Fields:  map[string]string{"file": "content_type"},
		}
	}

	maxBytes := s.limits.MaxImageBytes
	if in.Purpose == PurposePortrait {
		maxBytes = s.limits.MaxPortraitBytes
	}
	if err := storage.ValidateFileSize(in.Size, maxBytes); err != nil {
		return &apperrors.ValidationError{
			Code:    apperrors.UploadFileTooLarge,
			Message: fmt.Sprintf("La imagen no puede superar %s", formatBytes(maxBytes)),
			Fields:  map[string]string{"file": "max_size"},
		}
	}
	return nil
}

func (s *mediaService) Upload(ctx context.Context, ownerID, companyID uint, in UploadInput) (*model.CompanyImage, error) {
	if err := s.validateUpload(in); err != nil {
		logger.Debug("Upload rejected", map[string]interface{}{
			"company_id":   companyID,
			"slot":         in.Slot,
			"content_type": in.ContentType,
			"size":         in.Size,
		})
		return nil, err
	}
	if _, err := requireOwner(ctx, s.companyRepo, ownerID, companyID); err != nil {
		return nil, err
	}

	// Fail fast on a full gallery; the locked check below is authoritative.
	if _, err := s.occupancy(ctx, s.imageRepo, companyID, in.Slot); err != nil {
		return nil, err
	}

	path := storage.ObjectPath(companyID, string(in.Slot), in.ContentType, s.now())
	storedPath, err := s.blobs.Upload(ctx, path, in.Body, in.ContentType)
	if err != nil {
		logger.Error("Failed to upload image", err, map[string]interface{}{
			"company_id": companyID,
			"path":       path,
		})
		return nil, apperrors.NewTransportError("upload", err)
	}

	var (
		saved    *model.CompanyImage
		previous string
	)
	err = s.imageRepo.WithSlotLock(ctx, companyID, func(repo repository.CompanyImageRepository) error {
		existing, err := s.occupancy(ctx, repo, companyID, in.Slot)
		if err != nil {
			return err
		}

		if existing != nil {
			previous = existing.StoragePath
			existing.URL = s.blobs.PublicURL(storedPath)
			existing.StoragePath = storedPath
			existing.ContentType = in.ContentType
			existing.Size = in.Size
			if err := repo.Replace(ctx, existing); err != nil {
				return apperrors.NewTransportError("replace image", err)
			}
			saved = existing
			return nil
		}

		image := &model.CompanyImage{
			CompanyID:   companyID,
			ImageType:   in.Slot,
			URL:         s.blobs.PublicURL(storedPath),
			StoragePath: storedPath,
			ContentType: in.ContentType,
			Size:        in.Size,
		}
		if err := repo.Create(ctx, image); err != nil {
			return apperrors.NewTransportError("create image", err)
		}
		saved = image
		return nil
	})
	if err != nil {
		s.discardBlob(ctx, storedPath)
		var (
			conflictErr  *apperrors.ConflictError
			transportErr *apperrors.TransportError
		)
		if errors.As(err, &conflictErr) || errors.As(err, &transportErr) {
			return nil, err
		}
		return nil, apperrors.NewTransportError("lock slot", err)
	}

	if previous != "" {
		logger.Info("Image replaced", map[string]interface{}{
			"company_id": companyID,
			"image_id":   saved.ID,
			"slot":       in.Slot,
			"orphaned":   previous,
		})
	} else {
		logger.Info("Image uploaded", map[string]interface{}{
			"company_id": companyID,
			"image_id":   saved.ID,
			"slot":       in.Slot,
		})
	}
	return saved, nil
}

// occupancy returns the current logo or cover to overwrite, or a conflict
// when the gallery is full.
func (s *mediaService) occupancy(ctx context.Context, repo repository.CompanyImageRepository, companyID uint, slot model.ImageType) (*model.CompanyImage, error) {
	occupants, err := repo.FindBySlot(ctx, companyID, slot)
	if err != nil {
		return nil, apperrors.NewTransportError("load slot", err)
	}
	if slot.SingleOccupancy() {
		if len(occupants) > 0 {
			return &occupants[0], nil
		}
		return nil, nil
	}
	if len(occupants) >= s.limits.GalleryCapacity {
		return nil, apperrors.NewConflict(apperrors.MediaSlotFull, "slot",
			fmt.Sprintf("La galería admite hasta %d imágenes", s.limits.GalleryCapacity))
	}
	return nil, nil
}

func (s *mediaService) Remove(ctx context.Context, ownerID, companyID, imageID uint) error {
	if _, err := requireOwner(ctx, s.companyRepo, ownerID, companyID); err != nil {
		return err
	}

	image, err := s.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return apperrors.NewTransportError("load image", err)
	}
	if image.CompanyID != companyID {
		return ErrImageNotFound
	}

	if err := s.imageRepo.Delete(ctx, companyID, imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return apperrors.NewTransportError("delete image", err)
	}
	s.discardBlob(ctx, image.StoragePath)
	return nil
}

func (s *mediaService) Slots(ctx context.Context, companyID uint) (*model.MediaSlots, error) {
	images, err := s.imageRepo.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, apperrors.NewTransportError("load images", err)
	}
	return buildSlots(images), nil
}

func buildSlots(images []model.CompanyImage) *model.MediaSlots {
	slots := &model.MediaSlots{Gallery: []model.CompanyImage{}}
	for i := range images {
		image := images[i]
		switch image.ImageType {
		case model.ImageLogo:
			slots.Logo = &image
		case model.ImageCover:
			slots.Cover = &image
		case model.ImageGallery:
			slots.Gallery = append(slots.Gallery, image)
		}
	}
	return slots
}

// discardBlob is best effort; a leftover blob is only wasted space.
func (s *mediaService) discardBlob(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.blobs.Remove(ctx, path); err != nil {
		logger.Warn("Failed to remove blob", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

func formatBytes(n int64) string {
	if n >= 1024*1024 && n%(1024*1024) == 0 {
		return fmt.Sprintf("%dMB", n/(1024*1024))
	}
	return fmt.Sprintf("%dKB", n/1024)
}
