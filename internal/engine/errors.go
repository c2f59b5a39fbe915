package engine

import "errors"

var (
	// ErrInvalidState is returned by filter, search and reset before anything is loaded.
	ErrInvalidState = errors.New("no records loaded")
	// ErrEmptyResult means a search matched nothing. The view is left as it was.
	ErrEmptyResult = errors.New("no records match the search")
	ErrEmptyTerm   = errors.New("search term is empty")
	// ErrSuperseded is returned for a load or pass that a newer one replaced.
	ErrSuperseded = errors.New("superseded by a newer operation")
)
