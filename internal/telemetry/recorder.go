// Package telemetry batches client events and beacons them to the server.
// Delivery is best-effort: beacons are dropped under overload or transport
// failure rather than blocking the UI path.
package telemetry

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sia12-web/unihood/internal/redact"
	"github.com/sia12-web/unihood/internal/wire"
	"github.com/sia12-web/unihood/pkg/logger"
)

const (
	defaultQueueSize     = 256
	defaultFlushInterval = 30 * time.Second
	flushTimeout         = 10 * time.Second
)

// Poster delivers a batch of beacons to the backend.
type Poster interface {
	PostBeacons(ctx context.Context, beacons []wire.Beacon) error
}

// Recorder collects redacted beacons and flushes them periodically on a
// single background goroutine, so at most one POST is in flight at a time.
type Recorder struct {
	poster   Poster
	redactor *redact.Redactor
	interval time.Duration

	queue     chan wire.Beacon
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	stopped   chan struct{}
}

// NewRecorder creates a Recorder flushing through poster. A zero interval
// selects the default.
func NewRecorder(poster Poster, redactor *redact.Redactor, interval time.Duration) *Recorder {
	if interval <= 0 {
		interval = defaultFlushInterval
	}
	return &Recorder{
		poster:   poster,
		redactor: redactor,
		interval: interval,
		queue:    make(chan wire.Beacon, defaultQueueSize),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Record enqueues an event. Field keys ending in "_id" are pseudonymized;
// all other values are scrubbed for emails and handles. Never blocks; drops
// under overload.
func (r *Recorder) Record(kind string, fields map[string]string) {
	beacon := wire.Beacon{
		ID:     uuid.NewString(),
		Kind:   kind,
		At:     time.Now().UnixMilli(),
		Fields: r.redactFields(fields),
	}
	select {
	case r.queue <- beacon:
	default:
		logger.Warnf("[telemetry] queue full; dropping beacon %s", kind)
	}
}

func (r *Recorder) redactFields(fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if strings.HasSuffix(k, "_id") {
			out[k] = r.redactor.Pseudonym(v)
			continue
		}
		out[k] = redact.ScrubText(v)
	}
	return out
}

// Start launches the flush loop. Calling Start more than once is a no-op.
func (r *Recorder) Start() {
	r.startOnce.Do(func() {
		go r.loop()
	})
}

// Stop flushes pending beacons once and stops the loop. Safe to call more
// than once.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
	r.Start() // guarantee the loop exists so stopped closes
	<-r.stopped
}

func (r *Recorder) loop() {
	defer close(r.stopped)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.flush()
		case <-r.done:
			r.flush()
			return
		}
	}
}

// flush drains the queue and posts the batch. Failures drop the batch; the
// next interval starts fresh.
func (r *Recorder) flush() {
	var batch []wire.Beacon
	for {
		select {
		case b := <-r.queue:
			batch = append(batch, b)
		default:
			if len(batch) == 0 {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()
			if err := r.poster.PostBeacons(ctx, batch); err != nil {
				logger.Warnf("[telemetry] flush failed; dropping %d beacons: %v", len(batch), err)
			}
			return
		}
	}
}
