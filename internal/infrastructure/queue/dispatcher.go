package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
	"github.com/propertyhub/backoffice/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

var _ ports.SaleEventPublisher = (*Dispatcher)(nil)

// Dispatcher routes sale audit events to a fixed set of workers using
// consistent hashing on the property id, keeping per-property event order.
type Dispatcher struct {
	workers []chan domain.SaleEvent
	repo    ports.SaleEventRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.SaleEventRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.SaleEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SaleEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Close once their channel is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands event to the worker owning its property. It never blocks:
// when the worker channel is full the event is dropped and counted.
func (d *Dispatcher) Publish(event domain.SaleEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.AuditDroppedTotal.Inc()
		return
	}

	idx := d.shardIndex(event.PropertyID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().
			Str("event_id", event.ID).
			Int64("sale_id", event.SaleID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// Close stops accepting events. Already queued events are still written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// shardIndex maps a property id deterministically to a worker index.
func (d *Dispatcher) shardIndex(propertyID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(propertyID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.SaleEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.write(ctx, id, event)
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, event domain.SaleEvent) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := d.repo.InsertEvent(ctx, &event); err != nil {
		d.log.Error().Err(err).
			Str("event_id", event.ID).
			Int64("sale_id", event.SaleID).
			Int("worker_id", id).
			Msg("audit event write failed")
	}
}
