package store

import "errors"

// ErrNotFound is returned when an operation references a schema name
// absent from the graph.
var ErrNotFound = errors.New("not found")
