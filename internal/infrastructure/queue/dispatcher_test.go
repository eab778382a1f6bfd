package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cdportal/admin-console/internal/core/domain"
)

type recordingRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	err     error
	block   chan struct{}
}

func (r *recordingRepo) Insert(_ context.Context, e domain.AuditEntry) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *recordingRepo) byActor(actor string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ops []string
	for _, e := range r.entries {
		if e.Actor == actor {
			ops = append(ops, e.TargetID)
		}
	}
	return ops
}

func TestDispatcher_PreservesPerActorOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	d.Start()

	actors := []string{"alice", "bob", "carol"}
	for i := 0; i < 50; i++ {
		for _, a := range actors {
			d.Record(domain.AuditEntry{Actor: a, TargetID: fmt.Sprint(i)})
		}
	}
	if err := d.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	for _, a := range actors {
		got := repo.byActor(a)
		if len(got) != 50 {
			t.Fatalf("%s: got %d entries, want 50", a, len(got))
		}
		for i, id := range got {
			if id != fmt.Sprint(i) {
				t.Fatalf("%s: entry %d = %s, out of order", a, i, id)
			}
		}
	}
}

func TestDispatcher_StampsTime(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start()
	d.Record(domain.AuditEntry{Actor: "a"})
	_ = d.Stop(context.Background())

	if len(repo.entries) != 1 || repo.entries[0].At.IsZero() {
		t.Fatalf("entry not stamped: %+v", repo.entries)
	}
}

func TestDispatcher_FailureHook(t *testing.T) {
	var failed atomic.Int32
	repo := &recordingRepo{err: errors.New("boom")}
	d := NewDispatcher(1, repo, zerolog.Nop(), WithFailureHook(func() { failed.Add(1) }))
	d.Start()
	d.Record(domain.AuditEntry{Actor: "a"})
	d.Record(domain.AuditEntry{Actor: "a"})
	_ = d.Stop(context.Background())

	if failed.Load() != 2 {
		t.Fatalf("failures = %d, want 2", failed.Load())
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	var dropped atomic.Int32
	repo := &recordingRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop(), WithDropHook(func() { dropped.Add(1) }))
	d.Start()

	// one entry is held by the blocked worker, channelBuffer more fill the queue
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.AuditEntry{Actor: "a"})
	}
	if dropped.Load() == 0 {
		t.Fatal("expected drops once the shard is full")
	}
	close(repo.block)
	_ = d.Stop(context.Background())
}

func TestDispatcher_RecordAfterStopIsIgnored(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start()
	_ = d.Stop(context.Background())
	d.Record(domain.AuditEntry{Actor: "late"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if len(repo.entries) != 0 {
		t.Fatalf("late entry written: %+v", repo.entries)
	}
}
