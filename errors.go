package news

import (
	"github.com/scheisemanich/news/internal/retry"
	"github.com/scheisemanich/news/storage"
	"github.com/scheisemanich/news/youtube"
)

// Errors from the youtube package. Match with errors.Is.
var (
	ErrChannelNotFound     = youtube.ErrChannelNotFound
	ErrPlaylistNotFound    = youtube.ErrPlaylistNotFound
	ErrQuotaExceeded       = youtube.ErrQuotaExceeded
	ErrCredentialsNotFound = youtube.ErrCredentialsNotFound
	ErrInvalidCredentials  = youtube.ErrInvalidCredentials
)

// Errors from the storage package.
var (
	ErrNotFound     = storage.ErrNotFound
	ErrInvalidInput = storage.ErrInvalidInput
	ErrCorrupt      = storage.ErrCorrupt
)

// Error types carrying operation context. Match with errors.As.
type (
	// APIError wraps a YouTube Data API failure with the operation and
	// resource it concerned.
	APIError = youtube.APIError

	// AuthError wraps a credential loading or validation failure.
	AuthError = youtube.AuthError

	// StorageError wraps a snapshot read or write failure.
	StorageError = storage.StorageError

	// RetryExhaustedError reports that an operation kept failing after
	// all retry attempts.
	RetryExhaustedError = retry.ExhaustedError
)
