package enrollment

import (
	"time"

	"github.com/google/uuid"
)

// Credential is an enrolled TOTP credential as handed to the credential
// store. Once created it is owned by the store; this package never mutates
// it afterward.
type Credential struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	UserID     uuid.UUID
	Secret     string // Base32-encoded shared secret
	Algorithm  string
	Digits     int
	Period     int
	DeviceName string
	CreatedAt  time.Time
}

// Setup is the response to a setup-initiation request: the freshly issued
// secret and the provisioning URI encoding it. Neither is persisted
// server-side; the client resubmits the secret when confirming.
type Setup struct {
	Secret          string
	ProvisioningURI string
}

// ConfirmRequest carries the client's proof of possession: the secret it was
// issued and the first code its authenticator produced for it.
type ConfirmRequest struct {
	Secret      string
	InitialCode string
	DeviceName  string
}
