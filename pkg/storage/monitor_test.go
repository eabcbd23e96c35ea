package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openarchive/depot/pkg/observability"
	"github.com/openarchive/depot/pkg/query"
)

func TestMonitorRefreshExportsCounts(t *testing.T) {
	reg := builtinRegistry(t)
	src := NewMemorySource(reg)
	require.NoError(t, src.Put("locations", query.Record{"uuid": "l1"}))
	require.NoError(t, src.Put("locations", query.Record{"uuid": "l2"}))
	require.NoError(t, src.Put("pipelines", query.Record{"uuid": "pl1"}))

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	monitor, err := NewMonitor(src, reg, metrics, logger, "@every 1h")
	require.NoError(t, err)
	monitor.Start()
	defer monitor.Stop()

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RecordsTotal.WithLabelValues("locations")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RecordsTotal.WithLabelValues("pipelines")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.RecordsTotal.WithLabelValues("spaces")))
}

type brokenCountSource struct {
	*MemorySource
}

func (b *brokenCountSource) Count(ctx context.Context, res string) (int, error) {
	return 0, errors.New("backend down")
}

func TestMonitorSurvivesCountFailure(t *testing.T) {
	reg := builtinRegistry(t)
	src := &brokenCountSource{MemorySource: NewMemorySource(reg)}

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	monitor, err := NewMonitor(src, reg, metrics, logger, "@every 1h")
	require.NoError(t, err)

	// must not panic; failures are logged and retried next tick
	monitor.Start()
	monitor.Stop()
}

func TestMonitorRejectsBadSchedule(t *testing.T) {
	reg := builtinRegistry(t)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	_, err := NewMonitor(NewMemorySource(reg), reg, metrics, logger, "not a schedule")
	assert.Error(t, err)
}
