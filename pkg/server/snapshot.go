package server

import (
	"path/filepath"

	"github.com/robfig/cron/v3"

	"github.com/c9s/smcchart/pkg/chart"
)

// Snapshotter exports every live chart on a cron schedule. Each chart gets
// its own sub directory named after the instance ID.
type Snapshotter struct {
	registry *Registry
	dir      string
	cron     *cron.Cron
}

func NewSnapshotter(registry *Registry, schedule, dir string) (*Snapshotter, error) {
	s := &Snapshotter{
		registry: registry,
		dir:      dir,
		cron:     cron.New(),
	}

	if _, err := s.cron.AddFunc(schedule, s.SnapshotAll); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Snapshotter) Start() {
	s.cron.Start()
}

// Stop waits for a running export to finish.
func (s *Snapshotter) Stop() {
	<-s.cron.Stop().Done()
}

// SnapshotAll exports the current frame of every instance.
func (s *Snapshotter) SnapshotAll() {
	for _, instance := range s.registry.Instances() {
		dir := filepath.Join(s.dir, instance.ID)
		err := instance.Do(func(c *chart.Chart) error {
			_, err := c.SaveAs(dir)
			return err
		})
		if err != nil {
			snapshotsMetrics.WithLabelValues("error").Inc()
			log.WithError(err).Warnf("snapshot of chart %s failed", instance.ID)
			continue
		}
		snapshotsMetrics.WithLabelValues("ok").Inc()
	}
}
