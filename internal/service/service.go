package service

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"hotelbook/internal/blob"
	apperrors "hotelbook/internal/errors"
)

// Upload is a file received from a client, read once by the blob store.
type Upload struct {
	Filename string
	Content  io.Reader
}

// storageErr classifies a repository failure. Not-found is mapped to notFound
// when given; everything else is a storage error.
func storageErr(err error, notFound *apperrors.Error) error {
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrStorage, err)
}

// discardBlobs deletes uploads whose owning record was never stored. Failures
// are logged with the URL so the object can be removed by hand.
func discardBlobs(ctx context.Context, blobs blob.Store, urls ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := blobs.Delete(ctx, url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("orphaned blob not deleted")
		}
	}
}
