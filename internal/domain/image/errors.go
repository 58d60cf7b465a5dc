package image

import "errors"

var (
	ErrImageNotFound = errors.New("image not found")
	ErrMissingFile   = errors.New("select an image file first")
)
