package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// Dispatcher fans audit entries out to a fixed set of workers, hashing on
// the actor so one operator's entries are written in the order they happened.
type Dispatcher struct {
	workers []chan domain.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger

	wg       sync.WaitGroup
	mu       sync.RWMutex
	stopped  bool
	onDrop   func()
	onFailed func()
}

var _ ports.AuditSink = (*Dispatcher)(nil)

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithDropHook is called whenever an entry is discarded because its shard is full.
func WithDropHook(fn func()) Option {
	return func(d *Dispatcher) { d.onDrop = fn }
}

// WithFailureHook is called whenever the repository rejects an entry.
func WithFailureHook(fn func()) Option {
	return func(d *Dispatcher) { d.onFailed = fn }
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger, opts ...Option) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.AuditEntry, numWorkers),
		repo:     repo,
		log:      log,
		onDrop:   func() {},
		onFailed: func() {},
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the workers. They drain their queues and exit once Stop is
// called.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Stop closes every queue and waits for the workers to finish, or for ctx.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Record queues entry without blocking. A full shard drops the entry.
func (d *Dispatcher) Record(entry domain.AuditEntry) {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return
	}
	select {
	case d.workers[d.shardIndex(entry.Actor)] <- entry:
	default:
		d.onDrop()
		d.log.Warn().
			Str("actor", entry.Actor).
			Str("operation", entry.Operation).
			Msg("audit queue full, entry dropped")
	}
}

// shardIndex maps an actor deterministically to a worker index.
func (d *Dispatcher) shardIndex(actor string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(actor))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan domain.AuditEntry) {
	defer d.wg.Done()
	for entry := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		err := d.repo.Insert(ctx, entry)
		cancel()
		if err != nil {
			d.onFailed()
			d.log.Error().Err(err).
				Str("actor", entry.Actor).
				Str("resource", entry.Resource).
				Int("worker_id", id).
				Msg("audit insert failed")
		}
	}
}

// Discard is an AuditSink that drops everything. Used when auditing is off.
type Discard struct{}

func (Discard) Record(domain.AuditEntry) {}
