package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ReceiptRepository defines the interface for receipt image storage
type ReceiptRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// GenerateObjectPath creates a unique object path for a receipt variant
func GenerateObjectPath(userID uuid.UUID, expenseID uuid.UUID, imageID string, variant string) string {
	filename := fmt.Sprintf("%s_%s.jpg", imageID, variant)
	return path.Join(userID.String(), "receipts", expenseID.String(), filename)
}
