package authgate

import "errors"

var (
	// ErrUnauthenticated is returned for any request that does not carry a
	// valid bearer credential.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrMissingBearerToken is returned when the Authorization header is
	// absent or not in Bearer form.
	ErrMissingBearerToken = errors.New("missing bearer token")

	// ErrMissingSigningKey is returned when a validator is constructed
	// without key material.
	ErrMissingSigningKey = errors.New("missing signing key")

	// ErrInvalidSubject is returned when the subject claim is not a UUID.
	ErrInvalidSubject = errors.New("invalid subject claim")

	// ErrInvalidTenant is returned when the tenant claim is not a UUID.
	ErrInvalidTenant = errors.New("invalid tenant claim")

	// ErrNoPrincipalInContext is returned when no principal is found in context.
	ErrNoPrincipalInContext = errors.New("no principal in context")
)
