package model

import (
	"context"
	"io"
)

// ImageStore holds at most one image per (entity kind, entity id) and returns
// a retrievable URL for each upload.
type ImageStore interface {
	Put(ctx context.Context, entity, id string, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, entity, id string) error
}
