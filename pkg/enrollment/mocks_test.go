package enrollment_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/mfakit/pkg/enrollment"
)

// MockStore is a mock implementation of enrollment.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListActiveCredentials(ctx context.Context, tenantID, userID uuid.UUID) ([]enrollment.Credential, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]enrollment.Credential), args.Error(1)
}

func (m *MockStore) CreateCredential(ctx context.Context, cred enrollment.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}
