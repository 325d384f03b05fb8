package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"
)

// FeedSink receives each freshly rendered calendar.
type FeedSink interface {
	Update(data []byte, today int)
}

// DirectoryLoader returns the current address book, typically from the store.
type DirectoryLoader func(ctx context.Context) (*contacts.Directory, error)

// Publisher periodically reloads the address book and pushes a new feed.
type Publisher struct {
	Load            DirectoryLoader
	Generator       *Generator
	ReminderTrigger string
	Sink            FeedSink
	Interval        time.Duration // <= 0 publishes once and waits for cancellation
}

// Refresh performs one load-render-publish cycle.
func (p *Publisher) Refresh(ctx context.Context) error {
	dir, err := p.Load(ctx)
	if err != nil {
		return err
	}
	ics, today, err := p.Generator.Calendar(ctx, dir, p.ReminderTrigger)
	if err != nil {
		return err
	}
	p.Sink.Update(ics, today)
	return nil
}

// Run refreshes immediately, then on every tick until ctx is cancelled.
// Failed refreshes are logged and the previous feed stays published.
func (p *Publisher) Run(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	p.refreshAndLog(ctx, log)

	if p.Interval <= 0 {
		<-ctx.Done()
		log.Info(config.MsgWorkerStop)
		return
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	log.Info(config.MsgWorkerStart, config.LogKeyInterval, p.Interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-ticker.C:
			p.refreshAndLog(ctx, log)
		}
	}
}

func (p *Publisher) refreshAndLog(ctx context.Context, log *slog.Logger) {
	if err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
		log.Error(config.MsgRefreshFailed, config.LogKeyError, err)
	}
}
