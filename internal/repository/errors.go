package repository

import "errors"

var (
	// ErrNotFound is returned by point lookups and mutations of unknown records.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateEmail reports a unique-email violation.
	ErrDuplicateEmail = errors.New("repository: duplicate email")
	// ErrDuplicateNationalID reports a unique national-ID violation.
	ErrDuplicateNationalID = errors.New("repository: duplicate national id")
	// ErrDuplicateWorkerID reports a generated identifier that is already taken.
	ErrDuplicateWorkerID = errors.New("repository: duplicate worker id")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
