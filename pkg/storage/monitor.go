package storage

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/openarchive/depot/pkg/observability"
	"github.com/openarchive/depot/pkg/resource"
)

// Monitor periodically exports per-resource record counts as Prometheus
// gauges. Counts are informational; a failed refresh is logged and retried
// on the next tick.
type Monitor struct {
	source   Source
	registry *resource.Registry
	metrics  *observability.Metrics
	logger   *observability.Logger
	cron     *cron.Cron
}

// NewMonitor creates a record-count monitor with the given cron schedule,
// e.g. "@every 1m"
func NewMonitor(source Source, registry *resource.Registry, metrics *observability.Metrics, logger *observability.Logger, schedule string) (*Monitor, error) {
	m := &Monitor{
		source:   source,
		registry: registry,
		metrics:  metrics,
		logger:   logger,
		cron:     cron.New(),
	}
	if _, err := m.cron.AddFunc(schedule, m.refresh); err != nil {
		return nil, err
	}
	return m, nil
}

// Start refreshes once immediately, then on schedule
func (m *Monitor) Start() {
	m.refresh()
	m.cron.Start()
}

// Stop halts the schedule, waiting for a running refresh to finish
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
}

func (m *Monitor) refresh() {
	defer observability.RecoverPanic(m.logger, "record count refresh")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, name := range m.registry.Names() {
		n, err := m.source.Count(ctx, name)
		if err != nil {
			m.logger.WithField("resource", name).Errorf("record count refresh failed: %v", err)
			continue
		}
		m.metrics.RecordsTotal.WithLabelValues(name).Set(float64(n))
	}
}
