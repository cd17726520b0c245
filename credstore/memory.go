package credstore

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore holds the credential for the current process lifetime only.
type MemoryStore struct {
	lock       sync.RWMutex
	credential string
	present    bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) Save(_ context.Context, credential string) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	ms.credential = credential
	ms.present = true
	return nil
}

func (ms *MemoryStore) Load(_ context.Context) (string, error) {
	ms.lock.RLock()
	defer ms.lock.RUnlock()

	if !ms.present {
		return "", ErrNoCredential
	}
	return ms.credential, nil
}

func (ms *MemoryStore) Clear(_ context.Context) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	ms.credential = ""
	ms.present = false
	return nil
}
