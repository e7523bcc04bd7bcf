package ttscache

import "errors"

// ErrNotFound is returned by an ObjectStore.Get when no object exists at
// the given path.
var ErrNotFound = errors.New("ttscache: object not found")
