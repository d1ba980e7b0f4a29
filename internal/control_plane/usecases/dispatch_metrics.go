package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const _queueDepthTimeout = time.Second

// NewQueueDepthGauge reports the number of claimable commands on every
// scrape. A failed count reports -1.
func NewQueueDepthGauge(service DispatchService) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "nami_server",
			Subsystem: "dispatch",
			Name:      "queue_depth",
			Help:      "Commands that a robot could claim right now.",
		},
		func() float64 {
			ctx, cancel := context.WithTimeout(context.Background(), _queueDepthTimeout)
			defer cancel()

			depth, err := service.QueueDepth(ctx)
			if err != nil {
				slog.Warn("counting queue depth", slog.Any("error", err))
				return -1
			}
			return float64(depth)
		},
	)
}

// RegisterDispatchMetrics exposes the dispatch gauges on registerer.
func RegisterDispatchMetrics(registerer prometheus.Registerer, service DispatchService) error {
	return registerer.Register(NewQueueDepthGauge(service))
}
