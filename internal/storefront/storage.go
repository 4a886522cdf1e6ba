package storefront

import (
	"encoding/json"
	"fmt"
	"sync"

	"neogaming/internal/models"
)

// Session storage keys.
const (
	KeyUser       = "user"
	KeyLoggedIn   = "isLoggedIn"
	KeyPurchases  = "purchases"
	loggedInValue = "true"
)

// Storage is client-local key/value storage scoped to one browsing session.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// MemoryStorage is an in-memory Storage.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

func (s *MemoryStorage) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

func readPurchases(s Storage) ([]models.PurchaseRecord, error) {
	raw, ok := s.Get(KeyPurchases)
	if !ok || raw == "" {
		return nil, nil
	}
	var records []models.PurchaseRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("failed to decode purchase history: %w", err)
	}
	return records, nil
}

// appendPurchase adds rec to the stored history. A corrupt history is
// replaced rather than blocking the purchase.
func appendPurchase(s Storage, rec models.PurchaseRecord) error {
	records, err := readPurchases(s)
	if err != nil {
		records = nil
	}
	records = append(records, rec)
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode purchase history: %w", err)
	}
	s.Set(KeyPurchases, string(raw))
	return nil
}
