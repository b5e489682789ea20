package market

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Listener is notified of the quotes after every tick of a Ticker.
type Listener func(at time.Time, quotes []Quote)

// Ticker ticks a Feed on a cron schedule.
type Ticker struct {
	feed     *Feed
	cron     *cron.Cron
	log      zerolog.Logger
	now      func() time.Time
	listener Listener
}

// NewTicker creates a stopped ticker for feed. listener may be nil.
func NewTicker(feed *Feed, log zerolog.Logger, listener Listener) *Ticker {
	return &Ticker{
		feed:     feed,
		cron:     cron.New(),
		log:      log.With().Str("component", "ticker").Logger(),
		now:      time.Now,
		listener: listener,
	}
}

// Start schedules ticks and starts the ticker.
// Schedule examples:
//   - "@every 5s"   - Every 5 seconds
//   - "*/1 * * * *" - Every minute
func (t *Ticker) Start(schedule string) error {
	if _, err := t.cron.AddFunc(schedule, t.Tick); err != nil {
		return fmt.Errorf("invalid market schedule %q: %w", schedule, err)
	}
	t.cron.Start()
	t.log.Info().Str("schedule", schedule).Msg("Ticker started")
	return nil
}

// Stop stops the ticker and waits for a running tick to complete.
func (t *Ticker) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.log.Info().Msg("Ticker stopped")
}

// Tick ticks the feed now, and notifies the listener.
func (t *Ticker) Tick() {
	at := t.now()
	t.feed.Tick(at)
	t.log.Debug().Time("at", at).Msg("Market ticked")
	if t.listener != nil {
		t.listener(at, t.feed.Quotes())
	}
}
