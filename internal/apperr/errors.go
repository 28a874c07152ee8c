package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicatePage = errors.New("page already in graph")
)
