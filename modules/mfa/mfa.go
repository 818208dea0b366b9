package mfa

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/mfakit/pkg/authgate"
	"github.com/dmitrymomot/mfakit/pkg/enrollment"
)

// Coordinator is the enrollment service the module fronts.
type Coordinator interface {
	Setup(ctx context.Context, principal *authgate.Principal) (*enrollment.Setup, error)
	Confirm(ctx context.Context, principal *authgate.Principal, req enrollment.ConfirmRequest) error
}

// Service exposes TOTP enrollment over HTTP:
//
//	GET  /qr  → issue a secret and its provisioning URI (with QR rendering)
//	POST /    → confirm enrollment with the initial code
//
// Both routes run behind the authgate middleware; no handler executes
// without a resolved principal.
type Service struct {
	coordinator Coordinator
	tokens      authgate.TokenValidator
	validate    *validator.Validate
	qrSize      int
}

// Option configures the mfa Service.
type Option func(*Service)

// WithQRSize sets the rendered QR code edge length in pixels.
func WithQRSize(px int) Option {
	return func(s *Service) {
		if px > 0 {
			s.qrSize = px
		}
	}
}

// NewService creates the HTTP module for TOTP enrollment.
func NewService(coordinator Coordinator, tokens authgate.TokenValidator, opts ...Option) *Service {
	s := &Service{
		coordinator: coordinator,
		tokens:      tokens,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		qrSize:      defaultQRSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const defaultQRSize = 256

// Handle returns the module router, ready to mount under /mfa.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(authgate.Middleware(s.tokens))

	r.Get("/qr", s.setup)
	r.Post("/", s.confirm)

	return r
}
