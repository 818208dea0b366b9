package authgate

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal identifies the authenticated caller within a tenant scope.
// It is resolved per request and never persisted.
type Principal struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	DisplayName string
}

// TokenValidator resolves a bearer token into a Principal. Implementations
// must fail with ErrUnauthenticated (possibly wrapped) for any token they
// cannot positively validate.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*Principal, error)
}

// Claims is the JWT payload the JWTValidator expects: registered claims plus
// the tenant scope and display name of the caller.
type Claims struct {
	jwt.RegisteredClaims
	TenantID    string `json:"tid"`
	DisplayName string `json:"name,omitempty"`
}

// JWTValidator validates HS256-signed bearer tokens issued by the identity
// provider. The subject claim carries the user id and "tid" the tenant id,
// both as UUIDs.
type JWTValidator struct {
	signingKey []byte
	leeway     time.Duration
}

// JWTOption configures a JWTValidator.
type JWTOption func(*JWTValidator)

// WithLeeway tolerates the given clock skew when checking temporal claims.
func WithLeeway(d time.Duration) JWTOption {
	return func(v *JWTValidator) {
		if d > 0 {
			v.leeway = d
		}
	}
}

// NewJWTValidator creates a validator for HS256 tokens signed with signingKey.
func NewJWTValidator(signingKey []byte, opts ...JWTOption) (*JWTValidator, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	v := &JWTValidator{signingKey: signingKey}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Validate implements TokenValidator. Any parse, signature, or claim failure
// collapses into ErrUnauthenticated; callers get no oracle for why a token
// was rejected.
func (v *JWTValidator) Validate(_ context.Context, token string) (*Principal, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(v.leeway))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.signingKey, nil
	}, parserOpts...)
	if err != nil || !parsed.Valid {
		return nil, errors.Join(ErrUnauthenticated, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, ErrInvalidSubject)
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, ErrInvalidTenant)
	}

	return &Principal{
		TenantID:    tenantID,
		UserID:      userID,
		DisplayName: claims.DisplayName,
	}, nil
}
