package storefake

import (
	"context"
	"sync"

	"github.com/hireflow/hireflow-session/credstore"
)

var _ credstore.Store = (*FakeStore)(nil)

// FakeStore is an in-memory store with injectable failures for tests.
type FakeStore struct {
	lock       sync.Mutex
	credential string
	present    bool

	saveErr  error
	loadErr  error
	clearErr error

	saveCalls  int
	loadCalls  int
	clearCalls int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (fs *FakeStore) Save(_ context.Context, credential string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.saveCalls++
	if fs.saveErr != nil {
		return fs.saveErr
	}
	fs.credential = credential
	fs.present = true
	return nil
}

func (fs *FakeStore) Load(_ context.Context) (string, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.loadCalls++
	if fs.loadErr != nil {
		return "", fs.loadErr
	}
	if !fs.present {
		return "", credstore.ErrNoCredential
	}
	return fs.credential, nil
}

func (fs *FakeStore) Clear(_ context.Context) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.clearCalls++
	if fs.clearErr != nil {
		return fs.clearErr
	}
	fs.credential = ""
	fs.present = false
	return nil
}

func (fs *FakeStore) SetSaveErr(err error)  { fs.lock.Lock(); defer fs.lock.Unlock(); fs.saveErr = err }
func (fs *FakeStore) SetLoadErr(err error)  { fs.lock.Lock(); defer fs.lock.Unlock(); fs.loadErr = err }
func (fs *FakeStore) SetClearErr(err error) { fs.lock.Lock(); defer fs.lock.Unlock(); fs.clearErr = err }

// Seed places a credential in the store without going through Save.
func (fs *FakeStore) Seed(credential string) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.credential = credential
	fs.present = true
}

// Empty reports whether the store currently holds no credential.
func (fs *FakeStore) Empty() bool {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	return !fs.present
}

func (fs *FakeStore) SaveCalls() int  { fs.lock.Lock(); defer fs.lock.Unlock(); return fs.saveCalls }
func (fs *FakeStore) ClearCalls() int { fs.lock.Lock(); defer fs.lock.Unlock(); return fs.clearCalls }
