package media

import (
	"errors"
	"fmt"
)

// ErrUpload is the class of every upload failure, whether the input was
// rejected or the provider failed.
var ErrUpload = errors.New("image upload failed")

var (
	ErrNotImage   = fmt.Errorf("%w: content type must be image/*", ErrUpload)
	ErrTooLarge   = fmt.Errorf("%w: image is too large", ErrUpload)
	ErrEmptyImage = fmt.Errorf("%w: image is empty", ErrUpload)
	ErrDecode     = fmt.Errorf("%w: image cannot be decoded", ErrUpload)
)
