package totp

import "errors"

var (
	ErrInsufficientEntropy  = errors.New("secure random source unavailable")
	ErrMissingSecret        = errors.New("missing secret")
	ErrInvalidSecret        = errors.New("invalid secret")
	ErrMissingAccountName   = errors.New("missing account name")
	ErrMissingIssuer        = errors.New("missing issuer")
	ErrUnsupportedAlgorithm = errors.New("unsupported HMAC algorithm")
	ErrInvalidCode          = errors.New("invalid code format")

	ErrFailedToEncryptSecret      = errors.New("failed to encrypt TOTP secret")
	ErrFailedToDecryptSecret      = errors.New("failed to decrypt TOTP secret")
	ErrCipherTooShort             = errors.New("cipher text too short")
	ErrFailedToGenerateCryptoKey  = errors.New("failed to generate encryption key")
	ErrInvalidEncryptionKeyLength = errors.New("invalid encryption key length")
)
