package store

import "errors"

// Sentinel errors returned by catalog methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrDocumentNotFound is returned when a query or update targets a
	// catalog entry (identified by name) that does not exist.
	ErrDocumentNotFound = errors.New("document was not found")

	// ErrDocumentAlreadyExists is returned when saving a new document whose
	// name is already taken in the catalog.
	ErrDocumentAlreadyExists = errors.New("document already exists")

	// ErrDocumentNotSaved is returned when an INSERT or UPDATE completes
	// without error but the number of affected rows is zero, indicating
	// that nothing was actually persisted.
	ErrDocumentNotSaved = errors.New("document was not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// catalog methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan document row")
)
