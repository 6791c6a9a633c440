package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/repository/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MaxReceiptSize     = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth    = 50
	MinReceiptHeight   = 50
	ThumbnailWidth     = 200
	DisplayWidth       = 800
	JPEGQuality        = 85
	PresignedURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat        = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidReceiptData          = errors.New("invalid image data")
	ErrReceiptStorageNotConfigured = errors.New("receipt storage not configured")
)

// AllowedReceiptExtensions maps extensions to content types
var AllowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var receiptVariants = []string{"thumb", "display", "original"}

// ReceiptURLs contains presigned URLs for the stored variants
type ReceiptURLs struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// ReceiptService handles receipt image processing and storage for expenses.
// When storage is not configured the service reports itself disabled and all
// mutating operations fail fast.
type ReceiptService struct {
	storage     storage.ReceiptRepository
	expenseRepo domain.ExpenseRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storage storage.ReceiptRepository, expenseRepo domain.ExpenseRepository) *ReceiptService {
	return &ReceiptService{storage: storage, expenseRepo: expenseRepo}
}

// IsEnabled indicates whether uploads/deletes are supported
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedReceiptExtensions[ext]; !ok {
		return nil, ErrInvalidReceiptFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

// UploadReceipt validates, resizes and stores a receipt for an expense, then
// records the base object path on the expense. A previously attached receipt
// is replaced.
func (s *ReceiptService) UploadReceipt(ctx context.Context, userID uuid.UUID, expenseID uuid.UUID, data []byte, filename string) (*domain.Expense, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	if expense.ReceiptPath != nil {
		s.deleteVariants(ctx, *expense.ReceiptPath)
	}

	imageID := uuid.New().String()
	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ThumbnailWidth},
		{"display", DisplayWidth},
		{"original", 0}, // 0 keeps the original size
	}

	uploaded := make([]string, 0, len(variants))
	for _, variant := range variants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := storage.GenerateObjectPath(userID, expenseID, imageID, variant.name)
		if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
			s.cleanupObjects(ctx, uploaded)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		uploaded = append(uploaded, objectPath)
	}

	// Base path without variant suffix, variants derive from it
	basePath := storage.GenerateObjectPath(userID, expenseID, imageID, "")
	basePath = strings.TrimSuffix(basePath, "_.jpg")

	updated, err := s.expenseRepo.SetReceiptPath(userID, expenseID, &basePath)
	if err != nil {
		s.cleanupObjects(ctx, uploaded)
		return nil, err
	}

	return updated, nil
}

// GetReceiptURLs generates presigned URLs for the receipt attached to an expense
func (s *ReceiptService) GetReceiptURLs(ctx context.Context, userID uuid.UUID, expenseID uuid.UUID) (*ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptPath == nil {
		return nil, domain.ErrNotFound
	}

	urls := &ReceiptURLs{}
	targets := map[string]*string{
		"thumb":    &urls.ThumbnailURL,
		"display":  &urls.DisplayURL,
		"original": &urls.OriginalURL,
	}
	for variant, dst := range targets {
		url, err := s.storage.GeneratePresignedURL(ctx, variantPath(*expense.ReceiptPath, variant), PresignedURLExpiry)
		if err != nil {
			return nil, err
		}
		*dst = url
	}

	return urls, nil
}

// DeleteReceipt removes all stored variants and clears the expense reference
func (s *ReceiptService) DeleteReceipt(ctx context.Context, userID uuid.UUID, expenseID uuid.UUID) (*domain.Expense, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptPath == nil {
		return expense, nil
	}

	s.deleteVariants(ctx, *expense.ReceiptPath)
	return s.expenseRepo.SetReceiptPath(userID, expenseID, nil)
}

// deleteVariants removes every stored variant, best effort
func (s *ReceiptService) deleteVariants(ctx context.Context, basePath string) {
	for _, variant := range receiptVariants {
		if err := s.storage.Delete(ctx, variantPath(basePath, variant)); err != nil {
			log.Warn().Err(err).Str("path", basePath).Str("variant", variant).Msg("Failed to delete receipt variant")
		}
	}
}

// cleanupObjects removes objects uploaded during a failed operation
func (s *ReceiptService) cleanupObjects(ctx context.Context, paths []string) {
	for _, p := range paths {
		_ = s.storage.Delete(ctx, p)
	}
}

func variantPath(basePath, variant string) string {
	return basePath + "_" + variant + ".jpg"
}

// GetContentType returns the content type for a file extension
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := AllowedReceiptExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
