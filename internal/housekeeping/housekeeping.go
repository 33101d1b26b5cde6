// Package housekeeping runs periodic maintenance against the store.
package housekeeping

import (
	"context"
	"fmt"
	"log"
	"time"

	"gymdesk/routine-admin/internal/repository"

	"github.com/robfig/cron"
)

// TokenPurger deletes access tokens that expired more than retention ago.
// Such tokens already fail validation; removing them only keeps the
// collection small.
type TokenPurger struct {
	tokens    repository.AccessTokenRepository
	retention time.Duration
	now       func() time.Time
}

// NewTokenPurger creates a purger. A retention <= 0 purges every expired token.
func NewTokenPurger(tokens repository.AccessTokenRepository, retention time.Duration) *TokenPurger {
	if retention < 0 {
		retention = 0
	}
	return &TokenPurger{tokens: tokens, retention: retention, now: time.Now}
}

// Purge runs one pass and returns the number of deleted tokens.
func (p *TokenPurger) Purge(ctx context.Context) (int64, error) {
	cutoff := p.now().UTC().Add(-p.retention)
	n, err := p.tokens.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge tokens expired before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return n, nil
}

// Scheduler runs the purge on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	purger *TokenPurger
}

// NewScheduler registers the purge job under spec (e.g. "@daily", "@every 6h").
func NewScheduler(spec string, purger *TokenPurger) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, purger: purger}
	if err := c.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid housekeeping schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.purger.Purge(ctx)
	if err != nil {
		log.Printf("ERROR: Housekeeping failed: %v", err)
		return
	}
	log.Printf("INFO: Housekeeping removed %d expired access tokens", n)
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule. A job already running is not interrupted.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
