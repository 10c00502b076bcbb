package catalog

import "errors"

var (
	ErrEmptyCatalog = errors.New("catalog contains no images")
	ErrDuplicateID  = errors.New("duplicate image id")
	ErrInvalidImage = errors.New("image missing required fields")
)
