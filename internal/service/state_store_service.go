package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/steveiliop56/authlink/internal/model"

	gocache "github.com/patrickmn/go-cache"
)

type StateStoreServiceConfig struct {
	TTL time.Duration
}

// StateStoreService correlates pending state tokens with the attempt that issued them.
// The cache runs without a janitor, expired entries are removed by Sweep.
type StateStoreService struct {
	config StateStoreServiceConfig
	mu     sync.Mutex
	cache  *gocache.Cache
}

func NewStateStoreService(config StateStoreServiceConfig) *StateStoreService {
	return &StateStoreService{
		config: config,
	}
}

func (store *StateStoreService) Init() error {
	if store.config.TTL <= 0 {
		return fmt.Errorf("state ttl must be positive, got %s", store.config.TTL)
	}
	store.cache = gocache.New(store.config.TTL, 0)
	return nil
}

func (store *StateStoreService) Put(token string, attempt model.Attempt) error {
	if token == "" {
		return errors.New("state token cannot be empty")
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	// Add only fails when the key holds an unexpired item
	if err := store.cache.Add(token, attempt, gocache.DefaultExpiration); err != nil {
		return ErrDuplicateToken
	}

	return nil
}

// Take returns the attempt for token and removes it, so a token resolves at most once.
func (store *StateStoreService) Take(token string) (model.Attempt, error) {
	if token == "" {
		return model.Attempt{}, ErrUnknownToken
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	item, found := store.cache.Get(token)

	if !found {
		return model.Attempt{}, ErrUnknownToken
	}

	store.cache.Delete(token)

	attempt, ok := item.(model.Attempt)

	if !ok {
		return model.Attempt{}, ErrUnknownToken
	}

	return attempt, nil
}

// Expire invalidates token without handing out its attempt. It reports whether a live entry existed.
func (store *StateStoreService) Expire(token string) bool {
	if token == "" {
		return false
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	_, found := store.cache.Get(token)
	store.cache.Delete(token)

	return found
}

// Discard removes token like Take but for an attempt that ends without a code, it never fails.
func (store *StateStoreService) Discard(token string) (model.Attempt, bool) {
	attempt, err := store.Take(token)

	if err != nil {
		return model.Attempt{}, false
	}

	return attempt, true
}

func (store *StateStoreService) Sweep() int {
	store.mu.Lock()
	defer store.mu.Unlock()

	before := store.cache.ItemCount()
	store.cache.DeleteExpired()

	return before - store.cache.ItemCount()
}

// Len counts held entries, including expired ones not swept yet.
func (store *StateStoreService) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.cache.ItemCount()
}
