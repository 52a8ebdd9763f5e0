package relay

import (
	"context"
	"sync"
	"time"
)

// Limiter bounds the number of external processes running at once.
// Requests beyond the bound wait in line for at most queueTimeout.
type Limiter struct {
	slots        chan struct{}
	queueTimeout time.Duration
	metrics      *Metrics
}

// NewLimiter creates a limiter with maxConcurrent slots. A non-positive
// maxConcurrent disables the bound. A non-positive queueTimeout waits until
// the request context is done.
func NewLimiter(maxConcurrent int, queueTimeout time.Duration, metrics *Metrics) *Limiter {
	l := &Limiter{queueTimeout: queueTimeout, metrics: metrics}
	if maxConcurrent > 0 {
		l.slots = make(chan struct{}, maxConcurrent)
	}
	return l
}

// Capacity returns the slot count, or 0 when unbounded.
func (l *Limiter) Capacity() int {
	if l == nil {
		return 0
	}
	return cap(l.slots)
}

// Acquire takes a slot. The returned release func is safe to call more than once.
func (l *Limiter) Acquire(ctx context.Context, endpoint string) (func(), error) {
	var m *Metrics
	if l != nil {
		m = l.metrics
	}
	if l == nil || l.slots == nil {
		m.addInflight(1)
		return sync.OnceFunc(func() { m.addInflight(-1) }), nil
	}

	m.addQueued(1)
	defer m.addQueued(-1)

	var expired <-chan time.Time
	if l.queueTimeout > 0 {
		timer := time.NewTimer(l.queueTimeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case l.slots <- struct{}{}:
		m.addInflight(1)
		return sync.OnceFunc(func() {
			m.addInflight(-1)
			<-l.slots
		}), nil
	case <-expired:
		return nil, &Error{Kind: KindSaturated, Endpoint: endpoint}
	case <-ctx.Done():
		return nil, &Error{Kind: KindCanceled, Endpoint: endpoint, Err: ctx.Err()}
	}
}
