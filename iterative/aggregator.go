package iterative

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/anbtrfl/iterpar/pool"
)

const defaultCheckInterval = 1024

// Aggregator runs parallel aggregations with one fixed execution strategy.
// It holds no per-call state and is safe for concurrent use.
type Aggregator struct {
	exec          executor
	log           *log.Logger
	checkInterval int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// New returns an aggregator that starts one goroutine per partition for each
// call and joins them before combining.
func New(opts ...Option) *Aggregator {
	return newAggregator(goroutineExecutor{}, opts)
}

// NewWithPool returns an aggregator that runs the partitions of each call as
// one Map on p. The aggregator does not own p; shutting it down is up to the
// caller.
func NewWithPool(p *pool.WorkerPool, opts ...Option) *Aggregator {
	return newAggregator(poolExecutor{pool: p}, opts)
}

func newAggregator(exec executor, opts []Option) *Aggregator {
	a := &Aggregator{
		exec:          exec,
		checkInterval: defaultCheckInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = log.New(io.Discard)
	}
	a.log = a.log.With("component", "aggregator", "strategy", exec.name())
	return a
}

// WithLogger sets the logger for partition plans. Only debug level is used.
func WithLogger(logger *log.Logger) Option {
	return func(a *Aggregator) {
		a.log = logger
	}
}

// WithCheckInterval sets how many elements a partition visits between
// checks of its context. Non-positive values are ignored.
func WithCheckInterval(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.checkInterval = n
		}
	}
}

// Strategy names the execution strategy: "goroutines" or "pool".
func (a *Aggregator) Strategy() string {
	return a.exec.name()
}
