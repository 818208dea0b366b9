package credstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mfakit/pkg/enrollment"
)

// Memory is an in-process credential store for tests and single-node
// development setups. The check-and-insert in CreateCredential happens under
// one lock, giving the same conflict semantics the Postgres store gets from
// its uniqueness constraint.
type Memory struct {
	mu    sync.Mutex
	creds map[memoryKey]enrollment.Credential
}

type memoryKey struct {
	tenantID uuid.UUID
	userID   uuid.UUID
}

// NewMemory creates an empty in-memory credential store.
func NewMemory() *Memory {
	return &Memory{creds: make(map[memoryKey]enrollment.Credential)}
}

// ListActiveCredentials implements enrollment.Store.
func (m *Memory) ListActiveCredentials(_ context.Context, tenantID, userID uuid.UUID) ([]enrollment.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cred, ok := m.creds[memoryKey{tenantID: tenantID, userID: userID}]
	if !ok {
		return nil, nil
	}
	return []enrollment.Credential{cred}, nil
}

// CreateCredential implements enrollment.Store. It fails with
// enrollment.ErrCredentialExists when the (tenant, user) slot is taken.
func (m *Memory) CreateCredential(_ context.Context, cred enrollment.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memoryKey{tenantID: cred.TenantID, userID: cred.UserID}
	if _, ok := m.creds[key]; ok {
		return enrollment.ErrCredentialExists
	}
	m.creds[key] = cred
	return nil
}
