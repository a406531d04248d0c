package poller

import (
	"context"
	"time"

	"github.com/sandevgo/vndbot/internal/config"
	"github.com/sandevgo/vndbot/internal/core"
	"github.com/sandevgo/vndbot/pkg/log"
)

// UpdatesSource produces new events starting at a cursor position.
type UpdatesSource interface {
	GetUpdates(ctx context.Context, offset int64, limit int) ([]core.Event, error)
}

// Poller drives the update loop: fetch a batch from the current cursor,
// advance the cursor for every observed event, dispatch each event to its
// own handler goroutine.
type Poller struct {
	source     UpdatesSource
	cursor     *Cursor
	dispatcher *Dispatcher
	handle     HandleFunc

	batchLimit   int
	idleWait     time.Duration
	errorWait    time.Duration
	drainTimeout time.Duration
}

func New(cfg *config.PollerConfig, source UpdatesSource, handle HandleFunc) *Poller {
	return &Poller{
		source:       source,
		cursor:       NewCursor(cfg.ResumeOffset),
		dispatcher:   NewDispatcher(),
		handle:       handle,
		batchLimit:   cfg.BatchLimit,
		idleWait:     cfg.IdleWait,
		errorWait:    cfg.ErrorWait,
		drainTimeout: cfg.DrainTimeout,
	}
}

// Start runs the poll loop until ctx is done. Connectivity failures are
// logged and retried after a fixed wait; they never stop the loop.
func (p *Poller) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Int64("offset", p.cursor.Next()).Msg("polling for updates")

	for ctx.Err() == nil {
		events, err := p.source.GetUpdates(ctx, p.cursor.Next(), p.batchLimit)
		if err != nil {
			// The cursor stays put: these updates were never observed.
			logger.Error().Err(err).Msg("polling failed")
			if !sleep(ctx, p.errorWait) {
				break
			}
			continue
		}

		if len(events) == 0 {
			if !sleep(ctx, p.idleWait) {
				break
			}
			continue
		}

		for _, ev := range events {
			entry := logger.Debug().Int64("update_id", ev.ID)
			if len(ev.Raw) > 0 {
				entry = entry.RawJSON("update", ev.Raw)
			}
			entry.Msg("update received")

			// Advanced on observation, before the handler completes: a
			// crash in between drops the event (at-most-once delivery).
			p.cursor.Advance(ev.ID)

			// Handlers get a detached context: the signal that stops the
			// poll loop must not cancel retrievals already in progress.
			// Shutdown drains them instead.
			p.dispatcher.Spawn(context.WithoutCancel(ctx), ev, p.handle)
		}
	}
	return nil
}

// Shutdown drains in-flight handlers so replies already in progress are
// not cut short by a restart.
func (p *Poller) Shutdown(ctx context.Context) error {
	if !p.dispatcher.Wait(p.drainTimeout) {
		log.FromCtx(ctx).Warn().
			Int64("in_flight", p.dispatcher.InFlight()).
			Msg("shutting down with handlers still in flight")
	}
	return nil
}

// InFlight reports the number of handlers still running.
func (p *Poller) InFlight() int64 {
	return p.dispatcher.InFlight()
}

// sleep waits for d and reports false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
