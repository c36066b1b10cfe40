// Package blob stores uploaded images and hands back their public URLs.
package blob

import (
	"context"
	"io"
)

// Store uploads a blob and returns the URL it can be fetched from. Delete
// removes a blob by that URL; deleting an unknown URL is not an error.
type Store interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}
