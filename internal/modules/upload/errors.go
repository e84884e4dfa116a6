package upload

import "errors"

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size (10 MB)")
	ErrInvalidMimeType = errors.New("receipts must be JPEG, PNG, WebP or PDF")
	ErrNotFound        = errors.New("upload not found")
	ErrNotOwner        = errors.New("you do not own this upload")
)
