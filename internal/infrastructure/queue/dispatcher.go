package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/pkg/metrics"
)

const defaultWorkers = 4

// Notification carries a state snapshot for every subscriber of Topic.
type Notification struct {
	Topic string
	State domain.DashboardState
}

// Sink receives notifications from the dispatcher workers.
type Sink interface {
	Deliver(ctx context.Context, n Notification)
}

// shard holds the undelivered snapshot of each of its topics. A topic is
// queued once; later snapshots replace the pending one in place.
type shard struct {
	mu      sync.Mutex
	pending map[string]domain.DashboardState
	order   []string
	wake    chan struct{}
}

func newShard() *shard {
	return &shard{
		pending: make(map[string]domain.DashboardState),
		wake:    make(chan struct{}, 1),
	}
}

// take empties the shard and returns its notifications in queue order.
func (s *shard) take() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, 0, len(s.order))
	for _, topic := range s.order {
		out = append(out, Notification{Topic: topic, State: s.pending[topic]})
	}
	s.order = s.order[:0]
	clear(s.pending)
	return out
}

// Dispatcher routes state snapshots to a fixed set of workers using
// consistent hashing on the topic, guaranteeing per-session ordering.
type Dispatcher struct {
	shards []*shard
	sink   Sink
	log    zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink Sink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		shards: make([]*shard, numWorkers),
		sink:   sink,
		log:    log.With().Str("component", "dispatcher").Logger(),
	}
	for i := range d.shards {
		d.shards[i] = newShard()
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, s := range d.shards {
		go d.runWorker(ctx, i, s)
	}
}

// Publish queues st for topic without blocking; callers hold the dashboard
// store lock. When a snapshot of topic is still waiting, st replaces it and
// Publish returns false. The newest state of a topic is always delivered.
func (d *Dispatcher) Publish(topic string, st domain.DashboardState) bool {
	s := d.shards[d.shardIndex(topic)]

	s.mu.Lock()
	_, waiting := s.pending[topic]
	s.pending[topic] = st
	if !waiting {
		s.order = append(s.order, topic)
	}
	s.mu.Unlock()

	if waiting {
		metrics.NotificationsCoalescedTotal.Inc()
		d.log.Trace().Str("topic", topic).Uint64("version", st.Version).Msg("pending snapshot replaced")
	}

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return !waiting
}

// shardIndex maps a topic deterministically to a worker index.
func (d *Dispatcher) shardIndex(topic string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(topic))
	return int(h.Sum32() % uint32(len(d.shards)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, s *shard) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			for _, n := range s.take() {
				d.log.Trace().Int("worker_id", id).Str("topic", n.Topic).Msg("delivering snapshot")
				d.sink.Deliver(ctx, n)
			}
		}
	}
}
