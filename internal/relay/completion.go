package relay

import "sync"

type source int

const (
	sourceExit source = iota
	sourceTimeout
	sourceCancel
)

// completion is a single-assignment token. Several goroutines race to resolve
// it; only the first value is kept and every later resolve is a no-op.
type completion struct {
	once    sync.Once
	done    chan struct{}
	outcome Outcome
	from    source
}

func newCompletion() *completion {
	return &completion{done: make(chan struct{})}
}

// resolve reports whether this call won the race.
func (c *completion) resolve(from source, out Outcome) bool {
	won := false
	c.once.Do(func() {
		c.outcome = out
		c.from = from
		won = true
		close(c.done)
	})
	return won
}

// wait blocks until resolved and returns the winning outcome.
func (c *completion) wait() (Outcome, source) {
	<-c.done
	return c.outcome, c.from
}
