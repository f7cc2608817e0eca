package service

import (
	"errors"
	"sync"

	"github.com/steveiliop56/authlink/internal/model"
)

var ErrIdentityUnbound = errors.New("credential has no identity to bind to")

// CredentialService keeps the latest credential per identity in memory only.
type CredentialService struct {
	mu          sync.RWMutex
	credentials map[string]model.Credential
}

func NewCredentialService() *CredentialService {
	return &CredentialService{}
}

func (store *CredentialService) Init() error {
	store.credentials = make(map[string]model.Credential)
	return nil
}

func (store *CredentialService) Bind(identity model.Identity, credential model.Credential) error {
	if identity.IsZero() {
		return ErrIdentityUnbound
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	store.credentials[identity.Key()] = credential
	return nil
}

func (store *CredentialService) Get(identity model.Identity) (model.Credential, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	credential, ok := store.credentials[identity.Key()]
	return credential, ok
}

func (store *CredentialService) Forget(identity model.Identity) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	_, ok := store.credentials[identity.Key()]
	delete(store.credentials, identity.Key())
	return ok
}

func (store *CredentialService) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return len(store.credentials)
}
