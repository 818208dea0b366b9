package credstore

// Config holds credential store settings loaded from the environment.
type Config struct {
	// EncryptionKey is a base64-encoded 32-byte AES-256 key. When set,
	// secrets are encrypted before they reach the database; when empty they
	// are stored as issued.
	EncryptionKey string `env:"OTP_ENCRYPTION_KEY"`
}
