package credstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/mfakit/pkg/enrollment"
	"github.com/dmitrymomot/mfakit/pkg/pg"
	"github.com/dmitrymomot/mfakit/pkg/totp"
)

// Postgres stores credentials in the otp_credentials table (see migrations/).
// A partial unique index on (tenant_id, user_id) WHERE active turns the
// losing side of a concurrent create into a unique violation, which is
// reported as enrollment.ErrCredentialExists. That index is what makes
// check-then-create atomic across service instances.
type Postgres struct {
	pool          *pgxpool.Pool
	encryptionKey []byte
}

// PostgresOption configures a Postgres store.
type PostgresOption func(*Postgres)

// WithEncryptionKey enables AES-256-GCM encryption of secrets at rest. The
// key must be 32 bytes; without this option secrets are stored in plain text.
func WithEncryptionKey(key []byte) PostgresOption {
	return func(p *Postgres) {
		p.encryptionKey = key
	}
}

// NewPostgres creates a Postgres-backed credential store on the given pool.
func NewPostgres(pool *pgxpool.Pool, opts ...PostgresOption) (*Postgres, error) {
	if pool == nil {
		return nil, ErrNilPool
	}
	p := &Postgres{pool: pool}
	for _, opt := range opts {
		opt(p)
	}
	if p.encryptionKey != nil && len(p.encryptionKey) != totp.EncryptionKeySize {
		return nil, totp.ErrInvalidEncryptionKeyLength
	}
	return p, nil
}

// ListActiveCredentials implements enrollment.Store. Secrets come back
// decrypted, ready for verification.
func (p *Postgres) ListActiveCredentials(ctx context.Context, tenantID, userID uuid.UUID) ([]enrollment.Credential, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, tenant_id, user_id, secret, algorithm, digits, period, device_name, created_at
		FROM otp_credentials
		WHERE tenant_id = $1 AND user_id = $2 AND active`,
		tenantID, userID,
	)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	creds, err := pgx.CollectRows(rows, pgx.RowToStructByPos[enrollment.Credential])
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	for i := range creds {
		secret, err := p.revealSecret(creds[i].Secret)
		if err != nil {
			return nil, err
		}
		creds[i].Secret = secret
	}
	return creds, nil
}

// CreateCredential implements enrollment.Store.
func (p *Postgres) CreateCredential(ctx context.Context, cred enrollment.Credential) error {
	secret, err := p.sealSecret(cred.Secret)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO otp_credentials (id, tenant_id, user_id, secret, algorithm, digits, period, device_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		cred.ID, cred.TenantID, cred.UserID, secret,
		cred.Algorithm, cred.Digits, cred.Period, cred.DeviceName, cred.CreatedAt,
	)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return enrollment.ErrCredentialExists
		}
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}

func (p *Postgres) sealSecret(secret string) (string, error) {
	if p.encryptionKey == nil {
		return secret, nil
	}
	return totp.EncryptSecret(secret, p.encryptionKey)
}

func (p *Postgres) revealSecret(stored string) (string, error) {
	if p.encryptionKey == nil {
		return stored, nil
	}
	return totp.DecryptSecret(stored, p.encryptionKey)
}
