package memory

import (
	"sync"

	"github.com/yndnr/boopmesh/internal/core/domain"
)

// CredentialStore provides read-mostly in-memory storage for credentials.
type CredentialStore struct {
	mu    sync.RWMutex
	creds map[string]domain.Credential
}

// NewCredentialStore creates an empty credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		creds: make(map[string]domain.Credential),
	}
}

// Get retrieves a credential by identity key.
func (s *CredentialStore) Get(key string) (domain.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.creds[key]
	return c, ok
}

// Replace validates creds and swaps them in as the complete set.
// On error the previous set is kept.
func (s *CredentialStore) Replace(creds []domain.Credential) error {
	next := make(map[string]domain.Credential, len(creds))
	for i := range creds {
		c := creds[i]
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := next[c.Key]; dup {
			return domain.ErrCredentialDuplicate.WithDetails("key " + c.Key)
		}
		next[c.Key] = c
	}

	s.mu.Lock()
	s.creds = next
	s.mu.Unlock()
	return nil
}

// Count returns the number of stored credentials.
func (s *CredentialStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.creds)
}
