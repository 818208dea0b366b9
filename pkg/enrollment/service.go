package enrollment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mfakit/pkg/authgate"
	"github.com/dmitrymomot/mfakit/pkg/totp"
)

// Store is the external credential store collaborator. It is the system of
// record for enrolled factors and the only place the one-credential-per-user
// invariant can be enforced across service instances: CreateCredential must
// be backed by a transactional check-and-insert or a uniqueness constraint
// and return ErrCredentialExists when a concurrent or repeated create loses.
type Store interface {
	// ListActiveCredentials returns the active TOTP credentials for the
	// given (tenant, user). Secrets are returned decrypted.
	ListActiveCredentials(ctx context.Context, tenantID, userID uuid.UUID) ([]Credential, error)

	// CreateCredential persists a new credential, failing with
	// ErrCredentialExists if an active one already exists for the same
	// (tenant, user).
	CreateCredential(ctx context.Context, cred Credential) error
}

// Service coordinates the two-step enrollment transaction: issue a secret,
// then activate it exactly once after the caller proves possession.
type Service struct {
	store        Store
	issuer       string
	secretLength int
	policy       totp.CodePolicy
	now          func() time.Time
	log          *slog.Logger
}

// Option configures a Service during construction.
type Option func(*Service)

// WithSecretLength overrides the issued secret length in bytes.
func WithSecretLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.secretLength = n
		}
	}
}

// WithCodePolicy sets the tenant's code policy (algorithm, digits, period,
// skew) applied to verification and stamped onto created credentials.
func WithCodePolicy(p totp.CodePolicy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithClock overrides the time source. Used by tests to pin the
// verification reference time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for failure diagnostics. Log records carry
// principal identity but never secret material or submitted codes.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates an enrollment coordinator. The issuer is the service
// name authenticator apps display next to the account.
func NewService(store Store, issuer string, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("enrollment: nil store")
	}
	if strings.TrimSpace(issuer) == "" {
		return nil, totp.ErrMissingIssuer
	}

	s := &Service{
		store:        store,
		issuer:       issuer,
		secretLength: totp.DefaultSecretLength,
		policy:       totp.DefaultCodePolicy(),
		now:          time.Now,
		log:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Setup issues a fresh shared secret and the provisioning URI encoding it.
// Nothing is persisted: the secret lives only in the response, and the
// client must echo it back unmodified when confirming. The only failure mode
// is an unavailable entropy source, surfaced as totp.ErrInsufficientEntropy.
func (s *Service) Setup(ctx context.Context, principal *authgate.Principal) (*Setup, error) {
	secret, err := totp.GenerateSecret(s.secretLength)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to generate TOTP secret",
			slog.String("tenant_id", principal.TenantID.String()),
			slog.String("user_id", principal.UserID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	uri, err := totp.ProvisioningURI(totp.Params{
		Secret:      secret,
		AccountName: s.accountLabel(principal),
		Issuer:      s.issuer,
		Algorithm:   s.policy.Algorithm,
		Digits:      s.policy.Digits,
		Period:      s.policy.Period,
	})
	if err != nil {
		return nil, err
	}

	return &Setup{Secret: secret, ProvisioningURI: uri}, nil
}

// Confirm activates the credential exactly once. The check-then-create is
// atomic from the store's perspective: a store-level conflict from a
// concurrent confirmation maps to ErrAlreadyEnrolled rather than a retry,
// which would break the one-credential invariant. Every failure path leaves
// the store unchanged.
func (s *Service) Confirm(ctx context.Context, principal *authgate.Principal, req ConfirmRequest) error {
	existing, err := s.store.ListActiveCredentials(ctx, principal.TenantID, principal.UserID)
	if err != nil {
		s.logStoreFailure(ctx, principal, "list active credentials", err)
		return errors.Join(ErrStorageUnavailable, err)
	}
	if len(existing) > 0 {
		return ErrAlreadyEnrolled
	}

	if err := validateConfirmRequest(req); err != nil {
		return err
	}

	ok, err := s.policy.Verify(req.Secret, req.InitialCode, s.now())
	if err != nil {
		// Malformed secret or code shape; a matching failure is reported
		// separately below.
		return errors.Join(ErrInvalidArgument, err)
	}
	if !ok {
		s.log.WarnContext(ctx, "initial TOTP code verification failed",
			slog.String("tenant_id", principal.TenantID.String()),
			slog.String("user_id", principal.UserID.String()),
		)
		return ErrInvalidCode
	}

	policy := s.policy
	cred := Credential{
		ID:         uuid.New(),
		TenantID:   principal.TenantID,
		UserID:     principal.UserID,
		Secret:     strings.ToUpper(strings.TrimSpace(req.Secret)),
		Algorithm:  policy.Algorithm,
		Digits:     policy.Digits,
		Period:     policy.Period,
		DeviceName: strings.TrimSpace(req.DeviceName),
		CreatedAt:  s.now().UTC(),
	}

	if err := s.store.CreateCredential(ctx, cred); err != nil {
		if errors.Is(err, ErrCredentialExists) {
			// Lost a race against a concurrent confirmation; the winner's
			// credential stands.
			return ErrAlreadyEnrolled
		}
		s.logStoreFailure(ctx, principal, "create credential", err)
		return errors.Join(ErrStorageUnavailable, err)
	}

	s.log.InfoContext(ctx, "TOTP credential enrolled",
		slog.String("tenant_id", principal.TenantID.String()),
		slog.String("user_id", principal.UserID.String()),
		slog.String("credential_id", cred.ID.String()),
	)
	return nil
}

func (s *Service) accountLabel(principal *authgate.Principal) string {
	if principal.DisplayName != "" {
		return principal.DisplayName
	}
	return principal.UserID.String()
}

func (s *Service) logStoreFailure(ctx context.Context, principal *authgate.Principal, op string, err error) {
	s.log.ErrorContext(ctx, "credential store failure",
		slog.String("operation", op),
		slog.String("tenant_id", principal.TenantID.String()),
		slog.String("user_id", principal.UserID.String()),
		slog.Any("error", err),
	)
}

func validateConfirmRequest(req ConfirmRequest) error {
	if strings.TrimSpace(req.Secret) == "" {
		return errors.Join(ErrInvalidArgument, totp.ErrMissingSecret)
	}
	if !totp.SecretKeyRegex.MatchString(strings.ToUpper(strings.TrimSpace(req.Secret))) {
		return errors.Join(ErrInvalidArgument, totp.ErrInvalidSecret)
	}
	if strings.TrimSpace(req.InitialCode) == "" {
		return errors.Join(ErrInvalidArgument, totp.ErrInvalidCode)
	}
	if strings.TrimSpace(req.DeviceName) == "" {
		return errors.Join(ErrInvalidArgument, errors.New("missing device name"))
	}
	return nil
}
