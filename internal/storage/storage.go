package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// ObjectStore defines the interface for stored media objects.
// Consumers define this interface, not the S3 implementation.
type ObjectStore interface {
	// Upload stores the object and returns its retrievable URL.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// MenuImageKey builds the object key for a menu item image:
// menuItems/{ownerId}/{timestamp}_{filename}.
func MenuImageKey(ownerID, filename string) string {
	return fmt.Sprintf("menuItems/%s/%d_%s", ownerID, time.Now().UnixMilli(), filename)
}
