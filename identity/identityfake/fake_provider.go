package identityfake

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hireflow/hireflow-session/identity"
)

var _ identity.Provider = (*FakeProvider)(nil)

// FakeProvider is an in-memory identity provider for tests, with injectable
// results, delays and call counters.
type FakeProvider struct {
	lock sync.Mutex

	loginCredential   string
	loginErr          error
	refreshCredential string
	refreshErr        error
	refreshDelay      time.Duration
	invalidateErr     error

	loginCalls      int
	refreshCalls    int
	invalidateCalls int
	invalidated     []string
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{}
}

func (fp *FakeProvider) Login(_ context.Context, _ identity.Credentials) (string, error) {
	fp.lock.Lock()
	defer fp.lock.Unlock()

	fp.loginCalls++
	if fp.loginErr != nil {
		return "", fp.loginErr
	}
	return fp.loginCredential, nil
}

func (fp *FakeProvider) Refresh(_ context.Context, _ string) (string, error) {
	fp.lock.Lock()
	fp.refreshCalls++
	credential, err, delay := fp.refreshCredential, fp.refreshErr, fp.refreshDelay
	fp.lock.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return "", err
	}
	return credential, nil
}

func (fp *FakeProvider) Invalidate(_ context.Context, credential string) error {
	fp.lock.Lock()
	defer fp.lock.Unlock()

	fp.invalidateCalls++
	fp.invalidated = append(fp.invalidated, credential)
	return fp.invalidateErr
}

func (fp *FakeProvider) SetLoginResult(credential string, err error) {
	fp.lock.Lock()
	defer fp.lock.Unlock()
	fp.loginCredential = credential
	fp.loginErr = err
}

func (fp *FakeProvider) SetRefreshResult(credential string, err error) {
	fp.lock.Lock()
	defer fp.lock.Unlock()
	fp.refreshCredential = credential
	fp.refreshErr = err
}

func (fp *FakeProvider) SetRefreshDelay(d time.Duration) {
	fp.lock.Lock()
	defer fp.lock.Unlock()
	fp.refreshDelay = d
}

func (fp *FakeProvider) SetInvalidateErr(err error) {
	fp.lock.Lock()
	defer fp.lock.Unlock()
	fp.invalidateErr = err
}

func (fp *FakeProvider) LoginCalls() int {
	fp.lock.Lock()
	defer fp.lock.Unlock()
	return fp.loginCalls
}

func (fp *FakeProvider) RefreshCalls() int {
	fp.lock.Lock()
	defer fp.lock.Unlock()
	return fp.refreshCalls
}

func (fp *FakeProvider) InvalidateCalls() int {
	fp.lock.Lock()
	defer fp.lock.Unlock()
	return fp.invalidateCalls
}

func (fp *FakeProvider) Invalidated() []string {
	fp.lock.Lock()
	defer fp.lock.Unlock()
	out := make([]string, len(fp.invalidated))
	copy(out, fp.invalidated)
	return out
}

// MintCredential builds a decodable credential for tests. The signing key is
// irrelevant: the client never verifies signatures.
func MintCredential(subjectID, email, provider string, issuedAt, expiresAt time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      subjectID,
		"email":    email,
		"provider": provider,
		"iat":      issuedAt.Unix(),
		"exp":      expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte("fake-signing-key"))
	if err != nil {
		panic(err)
	}
	return signed
}
