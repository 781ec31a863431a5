package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a cache key is absent from the store.
	ErrNotFound = errors.New("recitation not found")

	// ErrBulkActive is returned when a bulk run is started while another
	// is still active. At most one bulk run exists system-wide.
	ErrBulkActive = errors.New("bulk download already active")
)

// StorageError marks a persistent-store failure (store unavailable, write
// rejected, quota exceeded). It is fatal to the single operation only;
// callers fall back to remote playback without caching.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NetworkError marks a failed fetch: transport error or non-success
// status. Status is zero when the request never completed.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
