package credstore

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var _ Store = (*Resilient)(nil)

// Resilient wraps a durable store and degrades to process-local memory when
// the durable backend fails (quota, permissions, unreachable redis). The
// session keeps working for the current process lifetime; only durability is
// lost. A store failure never propagates a crash to the session manager.
type Resilient struct {
	lock     sync.Mutex
	durable  Store
	memory   *MemoryStore
	degraded bool
	logger   zerolog.Logger
}

func NewResilient(durable Store, logger zerolog.Logger) *Resilient {
	return &Resilient{
		durable: durable,
		memory:  NewMemoryStore(),
		logger:  logger,
	}
}

func (r *Resilient) Save(ctx context.Context, credential string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	// The memory copy is always written so reads keep working after a
	// mid-session degrade.
	_ = r.memory.Save(ctx, credential)

	if r.degraded {
		return nil
	}
	if err := r.durable.Save(ctx, credential); err != nil {
		r.degrade("save", err)
	}
	return nil
}

func (r *Resilient) Load(ctx context.Context) (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.degraded {
		return r.memory.Load(ctx)
	}

	credential, err := r.durable.Load(ctx)
	if err == nil {
		_ = r.memory.Save(ctx, credential)
		return credential, nil
	}
	if errors.Is(err, ErrNoCredential) {
		return "", ErrNoCredential
	}

	r.degrade("load", err)
	return r.memory.Load(ctx)
}

func (r *Resilient) Clear(ctx context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	_ = r.memory.Clear(ctx)

	if r.degraded {
		return nil
	}
	if err := r.durable.Clear(ctx); err != nil {
		r.degrade("clear", err)
	}
	return nil
}

// Degraded reports whether the durable backend has been abandoned.
func (r *Resilient) Degraded() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.degraded
}

func (r *Resilient) degrade(op string, err error) {
	r.degraded = true
	r.logger.Warn().Err(err).Str("operation", op).
		Msg("durable credential store failed, continuing in-memory only")
}
