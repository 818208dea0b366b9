package enrollment

import "errors"

var (
	// ErrAlreadyEnrolled is returned when the principal already has an
	// active TOTP credential. Enrollment is single-shot until an
	// out-of-band revocation removes the credential.
	ErrAlreadyEnrolled = errors.New("already enrolled")

	// ErrInvalidArgument is returned for a malformed confirmation request:
	// missing fields, a secret that is not valid Base32, or a code of the
	// wrong shape.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidCode is returned when a well-formed initial code does not
	// match the submitted secret. No credential is created.
	ErrInvalidCode = errors.New("invalid code")

	// ErrStorageUnavailable is returned when the credential store fails for
	// reasons other than a uniqueness conflict. It is a server error and is
	// not retried here.
	ErrStorageUnavailable = errors.New("credential storage unavailable")

	// ErrCredentialExists is the conflict sentinel Store implementations
	// must return when a create collides with an existing active credential
	// for the same (tenant, user).
	ErrCredentialExists = errors.New("credential already exists")
)
