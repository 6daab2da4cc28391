package store

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// AutoSaver periodically triggers SaveForm while a builder view is open. It
// is the only cancellable unit of work in the system; Stop cancels it on view
// teardown.
type AutoSaver struct {
	cron *cron.Cron
}

// StartAutoSave schedules SaveForm on the given interval and starts the
// scheduler immediately.
func StartAutoSave(s *Store, interval time.Duration) (*AutoSaver, error) {
	if s == nil {
		return nil, fmt.Errorf("store: autosave requires a store")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("store: autosave interval must be positive, got %s", interval)
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), s.SaveForm); err != nil {
		return nil, fmt.Errorf("store: schedule autosave: %w", err)
	}
	c.Start()
	return &AutoSaver{cron: c}, nil
}

// Stop cancels the schedule and waits for an in-flight save to finish.
func (a *AutoSaver) Stop() {
	if a == nil || a.cron == nil {
		return
	}
	<-a.cron.Stop().Done()
}
