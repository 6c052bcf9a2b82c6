package errors

import "errors"

// ErrOptimisticLock the row was modified concurrently (version mismatch).
var ErrOptimisticLock = errors.New("record was modified by another operation, please retry")

// ErrDuplicate an insert hit a unique constraint and wrote nothing.
var ErrDuplicate = errors.New("record already exists")
