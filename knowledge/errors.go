package knowledge

import "errors"

var (
	ErrInvalidFile  = errors.New("invalid file")
	ErrListFailed   = errors.New("failed to list documents")
	ErrUploadFailed = errors.New("upload failed")
	ErrDeleteFailed = errors.New("failed to delete documents")
)
