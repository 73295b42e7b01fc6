package catalog

import "errors"

var (
	// ErrNotFound is returned when an operation references an unknown id.
	ErrNotFound = errors.New("not found")

	// ErrConfirmationDeclined is returned when the user declines a destructive action.
	ErrConfirmationDeclined = errors.New("confirmation declined")

	// ErrStoreUnavailable wraps load and save failures of the backing stores.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNoContent is returned by a ContentStore that has never been written.
	ErrNoContent = errors.New("no content stored")

	// ErrNotSelectable is returned when navigating into a disabled item.
	ErrNotSelectable = errors.New("item is not selectable")

	// ErrUnauthorized is returned for a wrong admin secret or a session without admin rights.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrImageTooLarge is returned for icon uploads above MaxImageSize.
	ErrImageTooLarge = errors.New("image too large")

	// ErrUnsupportedImage is returned for icon uploads of a type outside AllowedImageTypes.
	ErrUnsupportedImage = errors.New("unsupported image type")

	// ErrNoEditSession is returned when a draft operation runs without an open editor.
	ErrNoEditSession = errors.New("no edit session open")
)
