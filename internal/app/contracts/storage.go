package contracts

import (
	"context"
	"time"
)

// DocumentStorage issues presigned URLs for the digitized source documents
// the operator verifies the claim against.
type DocumentStorage interface {
	PresignedDocumentURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}
