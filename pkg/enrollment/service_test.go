package enrollment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mfakit/pkg/authgate"
	"github.com/dmitrymomot/mfakit/pkg/credstore"
	"github.com/dmitrymomot/mfakit/pkg/enrollment"
	"github.com/dmitrymomot/mfakit/pkg/totp"
)

func testPrincipal() *authgate.Principal {
	return &authgate.Principal{
		TenantID:    uuid.New(),
		UserID:      uuid.New(),
		DisplayName: "alice@example.com",
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestNewService(t *testing.T) {
	t.Parallel()

	_, err := enrollment.NewService(nil, "Acme")
	require.Error(t, err)

	_, err = enrollment.NewService(credstore.NewMemory(), "  ")
	require.ErrorIs(t, err, totp.ErrMissingIssuer)

	svc, err := enrollment.NewService(credstore.NewMemory(), "Acme")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestServiceSetup(t *testing.T) {
	t.Parallel()

	store := new(MockStore)
	svc, err := enrollment.NewService(store, "Acme", enrollment.WithSecretLength(32))
	require.NoError(t, err)

	principal := testPrincipal()
	setup, err := svc.Setup(context.Background(), principal)
	require.NoError(t, err)

	assert.Regexp(t, totp.SecretKeyRegex, setup.Secret)
	assert.Contains(t, setup.ProvisioningURI, "otpauth://totp/Acme:alice@example.com")
	assert.Contains(t, setup.ProvisioningURI, "secret="+setup.Secret)
	assert.Contains(t, setup.ProvisioningURI, "issuer=Acme")

	// Setup persists nothing; the store must not be touched.
	store.AssertNotCalled(t, "ListActiveCredentials")
	store.AssertNotCalled(t, "CreateCredential")

	// Each setup issues a fresh secret.
	second, err := svc.Setup(context.Background(), principal)
	require.NoError(t, err)
	assert.NotEqual(t, setup.Secret, second.Secret)
}

func TestServiceSetupFallbackLabel(t *testing.T) {
	t.Parallel()

	svc, err := enrollment.NewService(new(MockStore), "Acme")
	require.NoError(t, err)

	principal := testPrincipal()
	principal.DisplayName = ""

	setup, err := svc.Setup(context.Background(), principal)
	require.NoError(t, err)
	assert.Contains(t, setup.ProvisioningURI, principal.UserID.String())
}

func TestServiceConfirm(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	ctx := context.Background()

	newService := func(t *testing.T, store enrollment.Store) *enrollment.Service {
		t.Helper()
		svc, err := enrollment.NewService(store, "Acme", enrollment.WithClock(fixedClock(now)))
		require.NoError(t, err)
		return svc
	}

	validRequest := func(t *testing.T) enrollment.ConfirmRequest {
		t.Helper()
		secret, err := totp.GenerateSecret(totp.DefaultSecretLength)
		require.NoError(t, err)
		code, err := totp.GenerateCode(secret, now)
		require.NoError(t, err)
		return enrollment.ConfirmRequest{Secret: secret, InitialCode: code, DeviceName: "phone"}
	}

	t.Run("successful enrollment", func(t *testing.T) {
		t.Parallel()
		store := credstore.NewMemory()
		svc := newService(t, store)
		principal := testPrincipal()

		require.NoError(t, svc.Confirm(ctx, principal, validRequest(t)))

		creds, err := store.ListActiveCredentials(ctx, principal.TenantID, principal.UserID)
		require.NoError(t, err)
		require.Len(t, creds, 1)
		assert.Equal(t, principal.TenantID, creds[0].TenantID)
		assert.Equal(t, principal.UserID, creds[0].UserID)
		assert.Equal(t, "phone", creds[0].DeviceName)
		assert.Equal(t, totp.AlgorithmSHA1, creds[0].Algorithm)
		assert.Equal(t, totp.DefaultDigits, creds[0].Digits)
		assert.Equal(t, totp.DefaultPeriod, creds[0].Period)
	})

	t.Run("second enrollment conflicts", func(t *testing.T) {
		t.Parallel()
		store := credstore.NewMemory()
		svc := newService(t, store)
		principal := testPrincipal()

		require.NoError(t, svc.Confirm(ctx, principal, validRequest(t)))

		err := svc.Confirm(ctx, principal, validRequest(t))
		require.ErrorIs(t, err, enrollment.ErrAlreadyEnrolled)

		creds, err := store.ListActiveCredentials(ctx, principal.TenantID, principal.UserID)
		require.NoError(t, err)
		assert.Len(t, creds, 1)
	})

	t.Run("wrong code creates nothing", func(t *testing.T) {
		t.Parallel()
		store := credstore.NewMemory()
		svc := newService(t, store)
		principal := testPrincipal()

		req := validRequest(t)
		// A code from two periods back is outside the tolerance window.
		stale, err := totp.GenerateCode(req.Secret, now.Add(-2*totp.DefaultPeriod*time.Second))
		require.NoError(t, err)
		if stale == req.InitialCode {
			t.Skip("code collision between time steps")
		}
		req.InitialCode = stale

		err = svc.Confirm(ctx, principal, req)
		require.ErrorIs(t, err, enrollment.ErrInvalidCode)

		creds, err := store.ListActiveCredentials(ctx, principal.TenantID, principal.UserID)
		require.NoError(t, err)
		assert.Empty(t, creds)
	})

	t.Run("malformed request", func(t *testing.T) {
		t.Parallel()
		store := credstore.NewMemory()
		svc := newService(t, store)
		principal := testPrincipal()

		valid := validRequest(t)
		tests := []struct {
			name string
			req  enrollment.ConfirmRequest
		}{
			{"missing secret", enrollment.ConfirmRequest{InitialCode: valid.InitialCode, DeviceName: "phone"}},
			{"invalid secret", enrollment.ConfirmRequest{Secret: "not-base32!", InitialCode: valid.InitialCode, DeviceName: "phone"}},
			{"missing code", enrollment.ConfirmRequest{Secret: valid.Secret, DeviceName: "phone"}},
			{"non-numeric code", enrollment.ConfirmRequest{Secret: valid.Secret, InitialCode: "12345a", DeviceName: "phone"}},
			{"missing device name", enrollment.ConfirmRequest{Secret: valid.Secret, InitialCode: valid.InitialCode}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := svc.Confirm(ctx, principal, tt.req)
				require.ErrorIs(t, err, enrollment.ErrInvalidArgument)
			})
		}

		creds, err := store.ListActiveCredentials(ctx, principal.TenantID, principal.UserID)
		require.NoError(t, err)
		assert.Empty(t, creds)
	})

	t.Run("store conflict maps to already enrolled", func(t *testing.T) {
		t.Parallel()
		store := new(MockStore)
		store.On("ListActiveCredentials", mock.Anything, mock.Anything, mock.Anything).Return([]enrollment.Credential{}, nil)
		store.On("CreateCredential", mock.Anything, mock.Anything).Return(enrollment.ErrCredentialExists)

		svc := newService(t, store)
		err := svc.Confirm(ctx, testPrincipal(), validRequest(t))
		require.ErrorIs(t, err, enrollment.ErrAlreadyEnrolled)
	})

	t.Run("store failures surface as storage unavailable", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("connection refused")

		store := new(MockStore)
		store.On("ListActiveCredentials", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)
		svc := newService(t, store)
		err := svc.Confirm(ctx, testPrincipal(), validRequest(t))
		require.ErrorIs(t, err, enrollment.ErrStorageUnavailable)

		store = new(MockStore)
		store.On("ListActiveCredentials", mock.Anything, mock.Anything, mock.Anything).Return([]enrollment.Credential{}, nil)
		store.On("CreateCredential", mock.Anything, mock.Anything).Return(boom)
		svc = newService(t, store)
		err = svc.Confirm(ctx, testPrincipal(), validRequest(t))
		require.ErrorIs(t, err, enrollment.ErrStorageUnavailable)
	})

	t.Run("concurrent confirmations admit exactly one", func(t *testing.T) {
		t.Parallel()
		store := credstore.NewMemory()
		svc := newService(t, store)
		principal := testPrincipal()

		const attempts = 8
		results := make([]error, attempts)

		var wg sync.WaitGroup
		for i := range attempts {
			req := validRequest(t)
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = svc.Confirm(ctx, principal, req)
			}()
		}
		wg.Wait()

		var wins, conflicts int
		for _, err := range results {
			switch {
			case err == nil:
				wins++
			case errors.Is(err, enrollment.ErrAlreadyEnrolled):
				conflicts++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, attempts-1, conflicts)

		creds, err := store.ListActiveCredentials(ctx, principal.TenantID, principal.UserID)
		require.NoError(t, err)
		assert.Len(t, creds, 1)
	})
}
