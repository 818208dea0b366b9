package credstore

import "errors"

var (
	// ErrNilPool is returned when a Postgres store is constructed without a
	// connection pool.
	ErrNilPool = errors.New("nil connection pool")

	// ErrQueryFailed wraps unexpected database errors. Callers upstream map
	// it to their storage-unavailable taxonomy.
	ErrQueryFailed = errors.New("credential query failed")
)
