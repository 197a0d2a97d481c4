// backend/internal/quiz/timer.go
package quiz

import (
	"context"
	"time"
)

// Timer calls onTick every interval until it is stopped or its parent
// context ends. Stop may be called any number of times, including from
// inside onTick.
type Timer struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func StartTimer(ctx context.Context, interval time.Duration, onTick func()) *Timer {
	ctx, cancel := context.WithCancel(ctx)
	t := &Timer{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go t.run(ctx, interval, onTick)
	return t
}

func (t *Timer) run(ctx context.Context, interval time.Duration, onTick func()) {
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		close(t.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			onTick()
		}
	}
}

func (t *Timer) Stop() {
	t.cancel()
}

// Done is closed once the tick goroutine has exited.
func (t *Timer) Done() <-chan struct{} {
	return t.done
}
