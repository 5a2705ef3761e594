package editsync

import (
	"errors"

	"clipmark/internal/storage"
)

// isStorageError reports persistence failures that leave the in-memory
// state valid.
func isStorageError(err error) bool {
	return errors.Is(err, storage.ErrQuotaExceeded) || errors.Is(err, storage.ErrUnavailable)
}
