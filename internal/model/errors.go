package model

import "errors"

// ErrNotFound is returned by stores when the requested document does not exist.
var ErrNotFound = errors.New("not found")
