package sheet

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	applog "github.com/htu-dlearn/courseboard/internal/log"
)

// StartRefresh clears the store's cache on a standard 5-field cron
// schedule (e.g. "0 * * * *" hourly). An empty schedule disables it and
// returns a nil scheduler. Callers stop the returned scheduler on shutdown.
func StartRefresh(schedule string, s *Store) (*cron.Cron, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		applog.Infof("scheduled refresh disabled")
		return nil, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		_ = s.Refresh("")
	}); err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", schedule, err)
	}
	c.Start()
	applog.Infof("scheduled refresh enabled (cron: %s)", schedule)
	return c, nil
}
