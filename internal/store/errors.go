package store

import "errors"

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT or UPSERT
	// fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails.
	ErrScanningRows = errors.New("failed to scan rows")
)

// File backend errors.
var (
	// ErrReadingFile is returned when a storage file exists but cannot be read.
	ErrReadingFile = errors.New("error reading storage file")

	// ErrWritingFile is returned when a storage file cannot be written or
	// atomically replaced.
	ErrWritingFile = errors.New("error writing storage file")
)

// ErrUnknownDriver is returned by [NewClientStorages] for an unsupported
// storage driver.
var ErrUnknownDriver = errors.New("unknown storage driver")
