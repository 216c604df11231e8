package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/xivapi/common-backend/internal/api/metrics"
	"github.com/xivapi/common-backend/internal/core/ports"
)

const (
	defaultWorkers     = 2
	channelBuffer      = 256
	defaultSendTimeout = 10 * time.Second
)

// ErrQueueFull is returned when the worker owning a channel has no buffer left.
var ErrQueueFull = errors.New("notification queue full")

type message struct {
	channelID string
	text      string
}

// Dispatcher delivers chat messages in the background. Messages are routed to
// a fixed set of workers by hashing the channel id, so messages for one
// channel keep their order.
type Dispatcher struct {
	workers     []chan message
	notifier    ports.Notifier
	sendTimeout time.Duration
	log         zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.Notifier, sendTimeout time.Duration, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	d := &Dispatcher{
		workers:     make([]chan message, numWorkers),
		notifier:    notifier,
		sendTimeout: sendTimeout,
		log:         log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan message, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// SendMessage queues the message and returns immediately. It never blocks the
// caller: a full worker buffer drops the message and returns ErrQueueFull.
func (d *Dispatcher) SendMessage(_ context.Context, channelID, text string) error {
	idx := d.shardIndex(channelID)
	select {
	case d.workers[idx] <- message{channelID: channelID, text: text}:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	default:
		metrics.NotificationsDroppedTotal.Inc()
		d.log.Warn().
			Str("channel_id", channelID).
			Int("worker_id", idx).
			Msg("notification dropped, queue full")
		return ErrQueueFull
	}
}

// shardIndex maps a channel id deterministically to a worker index.
func (d *Dispatcher) shardIndex(channelID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(channelID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan message) {
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.deliver(ctx, id, msg)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, msg message) {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	start := time.Now()
	err := d.notifier.SendMessage(sendCtx, msg.channelID, msg.text)
	result := "ok"
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("channel_id", msg.channelID).
			Int("worker_id", id).
			Msg("notification delivery failed")
	}
	metrics.NotificationSendDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
