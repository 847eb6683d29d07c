package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
)

type recordingSink struct {
	mu  sync.Mutex
	got map[string][]uint64
}

func newRecordingSink() *recordingSink {
	return &recordingSink{got: make(map[string][]uint64)}
}

func (s *recordingSink) Deliver(_ context.Context, n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got[n.Topic] = append(s.got[n.Topic], n.State.Version)
}

func (s *recordingSink) versions(topic string) []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint64(nil), s.got[topic]...)
}

// waitForVersion polls until the last delivery of topic carries want.
func waitForVersion(t *testing.T, sink *recordingSink, topic string, want uint64) []uint64 {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got := sink.versions(topic)
		if len(got) > 0 && got[len(got)-1] == want {
			return got
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("topic %s: version %d never delivered, got %v", topic, want, sink.versions(topic))
	return nil
}

func TestDispatcher_PreservesPerTopicOrder(t *testing.T) {
	sink := newRecordingSink()
	d := NewDispatcher(3, sink, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	topics := []string{"a:mean_time_weekday", "b:mean_time_weekday", "c:presence_weekday"}
	const perTopic = 20
	for v := uint64(1); v <= perTopic; v++ {
		for _, topic := range topics {
			d.Publish(topic, domain.DashboardState{Version: v})
		}
	}

	for _, topic := range topics {
		got := waitForVersion(t, sink, topic, perTopic)
		for i := 1; i < len(got); i++ {
			if got[i] <= got[i-1] {
				t.Fatalf("topic %s: out of order at %d: %v", topic, i, got)
			}
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, newRecordingSink(), zerolog.Nop())
	if len(d.shards) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.shards))
	}
	first := d.shardIndex("session-1:mean_time_weekday")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("session-1:mean_time_weekday"); got != first {
			t.Fatalf("shard changed: %d != %d", got, first)
		}
	}
}

func TestDispatcher_PendingSnapshotIsReplacedNotDropped(t *testing.T) {
	sink := newRecordingSink()
	d := NewDispatcher(1, sink, zerolog.Nop())

	// workers not started: snapshots stay pending
	if !d.Publish("t", domain.DashboardState{Version: 1}) {
		t.Fatal("first snapshot was not queued")
	}
	for v := uint64(2); v <= 1000; v++ {
		if d.Publish("t", domain.DashboardState{Version: v}) {
			t.Fatalf("version %d queued a second delivery for a waiting topic", v)
		}
	}
	if !d.Publish("other", domain.DashboardState{Version: 1}) {
		t.Fatal("snapshot of another topic was not queued")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	if got := waitForVersion(t, sink, "t", 1000); len(got) != 1 {
		t.Errorf("deliveries = %v, want only the newest snapshot", got)
	}
	waitForVersion(t, sink, "other", 1)
}

func TestDispatcher_DeliversAfterDrain(t *testing.T) {
	sink := newRecordingSink()
	d := NewDispatcher(1, sink, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Publish("t", domain.DashboardState{Version: 1})
	waitForVersion(t, sink, "t", 1)

	if !d.Publish("t", domain.DashboardState{Version: 2}) {
		t.Fatal("snapshot after delivery was not queued")
	}
	waitForVersion(t, sink, "t", 2)
}
