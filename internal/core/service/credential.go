package service

import (
	"log/slog"

	"github.com/yndnr/boopmesh/internal/core/domain"
)

// CredentialRepository is the read side of the credential store.
type CredentialRepository interface {
	Get(key string) (domain.Credential, bool)
}

// CredentialService verifies identity keys and passwords.
type CredentialService struct {
	repo   CredentialRepository
	logger *slog.Logger

	// decoy is verified for unknown keys so that a miss costs about as
	// much as a wrong password.
	decoy string
}

// NewCredentialService creates a CredentialService over repo.
func NewCredentialService(repo CredentialRepository, logger *slog.Logger) *CredentialService {
	if logger == nil {
		logger = slog.Default()
	}

	return &CredentialService{
		repo:   repo,
		logger: logger,
		decoy:  encodePHC("", make([]byte, 16), DefaultArgon2Params()),
	}
}

// Verify reports whether password matches the credential stored for key.
func (s *CredentialService) Verify(key, password string) bool {
	cred, ok := s.repo.Get(key)
	if !ok {
		_, _ = VerifyPassword(password, s.decoy)
		return false
	}

	match, err := VerifyPassword(password, cred.Hash)
	if err != nil {
		s.logger.Warn("stored password hash unusable", "key", key, "error", err)
		return false
	}
	return match
}
