package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"nami-server/internal/infra/async"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// NewClaimTimeoutWorker builds the worker that sweeps stalled claims on a
// cron schedule such as "@every 10s".
func NewClaimTimeoutWorker(schedule string, service DispatchService) (*ClaimTimeoutWorker, error) {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	spec, err := parser.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("parsing sweep schedule %q: %w", schedule, err)
	}

	return &ClaimTimeoutWorker{
		schedule: spec,
		service:  service,
		scheduler: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
			cron.Recover(cron.DiscardLogger),
		)),
	}, nil
}

var _ async.Worker = &ClaimTimeoutWorker{}

type ClaimTimeoutWorker struct {
	schedule  cron.Schedule
	service   DispatchService
	scheduler *cron.Cron
}

func (w *ClaimTimeoutWorker) Run(ctx context.Context, done func()) {
	slog.Debug("claim timeout worker started")
	defer done()

	w.scheduler.Schedule(w.schedule, cron.FuncJob(func() {
		w.sweep(ctx)
	}))
	w.scheduler.Start()

	<-ctx.Done()
	slog.Info("claim timeout worker cancelled")
	<-w.scheduler.Stop().Done()
}

func (w *ClaimTimeoutWorker) Shutdown() {
	slog.Debug("claim timeout worker shutdown")
	w.scheduler.Stop()
}

func (w *ClaimTimeoutWorker) sweep(parent context.Context) {
	if parent.Err() != nil {
		return
	}

	ctx, span := otel.Tracer("nami_server").Start(context.Background(), "claim-timeout-sweep")
	defer span.End()

	result, err := w.service.ExpireStalled(ctx)
	if err != nil {
		logSpanError(span, "sweeping stalled commands", err)
		return
	}

	if result.Requeued > 0 || result.Failed > 0 {
		slog.Info("claim timeout sweep did end",
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
			slog.Int("requeued", result.Requeued),
			slog.Int("failed", result.Failed),
		)
	}
}

func logSpanError(span trace.Span, msg string, err error) {
	span.RecordError(err)
	slog.Error(msg,
		slog.String("trace_id", span.SpanContext().TraceID().String()),
		slog.String("span_id", span.SpanContext().SpanID().String()),
		slog.Any("error", err),
	)
}
