package credstore

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps the credential in a single file so the session survives a
// process restart. With an encryption key configured the credential is sealed
// at rest with XChaCha20-Poly1305.
type FileStore struct {
	path string
	key  []byte // nil when encryption is off
}

type FileStoreOption func(*FileStore)

// WithEncryptionKey enables at-rest encryption. The passphrase is stretched to
// a 256-bit key with SHA-256.
func WithEncryptionKey(passphrase string) FileStoreOption {
	return func(fs *FileStore) {
		key := sha256.Sum256([]byte(passphrase))
		fs.key = key[:]
	}
}

func NewFileStore(path string, options ...FileStoreOption) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("NewFileStore: path is required")
	}

	fs := &FileStore{path: path}
	for _, opt := range options {
		opt(fs)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "FileStore.MkdirAll")
	}
	return fs, nil
}

func (fs *FileStore) Save(_ context.Context, credential string) error {
	data := []byte(credential)

	if fs.key != nil {
		sealed, err := fs.seal(data)
		if err != nil {
			return errors.Wrap(err, "FileStore.Save seal")
		}
		data = sealed
	}

	if err := os.WriteFile(fs.path, data, 0o600); err != nil {
		return errors.Wrap(err, "FileStore.Save WriteFile")
	}
	return nil
}

func (fs *FileStore) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", errors.Wrap(err, "FileStore.Load ReadFile")
	}

	if fs.key != nil {
		data, err = fs.open(data)
		if err != nil {
			return "", errors.Wrap(err, "FileStore.Load open")
		}
	}
	return string(data), nil
}

func (fs *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "FileStore.Clear Remove")
	}
	return nil
}

func (fs *FileStore) seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(fs.key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (fs *FileStore) open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(fs.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("sealed credential too short")
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, nil)
}
