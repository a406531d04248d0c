package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandevgo/vndbot/internal/core"
	"github.com/sandevgo/vndbot/pkg/log"
)

// HandleFunc processes one event on its own goroutine.
type HandleFunc func(ctx context.Context, ev core.Event) error

// Dispatcher launches one goroutine per event. Spawning never blocks, a
// failing or panicking handler is contained at the task boundary, and the
// number of in-flight handlers stays observable so shutdown can drain them.
type Dispatcher struct {
	wg       sync.WaitGroup
	inFlight atomic.Int64
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Spawn(ctx context.Context, ev core.Event, handle HandleFunc) {
	d.wg.Add(1)
	d.inFlight.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.inFlight.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				log.FromCtx(ctx).Error().Int64("update_id", ev.ID).Msgf("handler panicked: %v", r)
			}
		}()

		if err := handle(ctx, ev); err != nil {
			log.FromCtx(ctx).Error().Err(err).Int64("update_id", ev.ID).Msg("handler failed")
		}
	}()
}

// InFlight reports the number of handlers still running.
func (d *Dispatcher) InFlight() int64 {
	return d.inFlight.Load()
}

// Wait blocks until every spawned handler has finished or the timeout
// elapses. It reports whether the dispatcher fully drained.
func (d *Dispatcher) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
