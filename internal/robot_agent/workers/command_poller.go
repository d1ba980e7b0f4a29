package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"nami-server/internal/infra/async"
	"nami-server/internal/robot_agent/usecases"
	"nami-server/internal/shared_kernel/domain"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultReportRetries  = 3
	DefaultReportInterval = 500 * time.Millisecond
)

type CommandPollerConfig struct {
	RobotID        domain.ID
	ReportRetries  uint64
	ReportInterval time.Duration
}

// NewCommandPoller drives the robot: every tick it sends a heartbeat and,
// when idle, claims and runs the next command before polling again.
func NewCommandPoller(
	ticker *time.Ticker,
	client usecases.DispatchClient,
	executor usecases.Executor,
	state *usecases.StateHolder,
	config CommandPollerConfig,
) *CommandPoller {
	if config.ReportRetries == 0 {
		config.ReportRetries = DefaultReportRetries
	}
	if config.ReportInterval <= 0 {
		config.ReportInterval = DefaultReportInterval
	}

	return &CommandPoller{
		ticker:   ticker,
		client:   client,
		executor: executor,
		state:    state,
		config:   config,
	}
}

var _ async.Worker = &CommandPoller{}

type CommandPoller struct {
	ticker   *time.Ticker
	client   usecases.DispatchClient
	executor usecases.Executor
	state    *usecases.StateHolder
	config   CommandPollerConfig

	mu sync.Mutex
	// unsent holds an outcome the dispatch queue did not receive yet
	unsent *usecases.OutcomeReport
}

func (p *CommandPoller) Run(ctx context.Context, done func()) {
	slog.Info("command poller started", slog.String("robot_id", p.config.RobotID.String()))
	defer done()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("command poller cancelled")
			return
		case <-p.ticker.C:
			p.Poll(ctx)
		}
	}
}

func (p *CommandPoller) Shutdown() {
	slog.Debug("command poller shutdown")
	p.ticker.Stop()
}

// Poll runs one tick. A claimed command is executed to the end even when ctx
// is cancelled meanwhile.
func (p *CommandPoller) Poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	ctx, span := otel.Tracer("nami_robot").Start(ctx, "robot-poll")
	defer span.End()

	if !p.flushUnsent(ctx, span) {
		return
	}

	p.heartbeat(ctx, span)

	var intents []domain.Intent
	if p.state.Snapshot().IsStopped() {
		intents = []domain.Intent{domain.IntentRobotControl}
	}

	cmd, ok, err := p.client.ClaimNext(ctx, p.config.RobotID, intents)
	if err != nil {
		logSpan(span, slog.LevelWarn, "poll failed, retrying next tick", err)
		return
	}
	if !ok {
		slog.Debug("no command to claim", slog.String("trace_id", span.SpanContext().TraceID().String()))
		return
	}

	p.run(context.WithoutCancel(ctx), span, cmd)
}

func (p *CommandPoller) run(ctx context.Context, span trace.Span, cmd domain.Command) {
	span.SetAttributes(
		attribute.String("command.id", cmd.ID.String()),
		attribute.String("command.intent", string(cmd.Intent)),
	)
	slog.Info("command claimed",
		slog.String("trace_id", span.SpanContext().TraceID().String()),
		slog.String("span_id", span.SpanContext().SpanID().String()),
		slog.String("command_id", cmd.ID.String()),
		slog.String("intent", string(cmd.Intent)),
		slog.Int("retry_count", cmd.RetryCount),
	)

	p.state.StartTask(fmt.Sprintf("%s %s", cmd.Action, cmd.Target))
	err := p.executor.Execute(ctx, cmd)
	p.state.FinishTask()

	if errors.Is(err, domain.ErrUnknownIntent) {
		logSpan(span, slog.LevelError, "claimed command has no handler", err)
	}

	report := usecases.NewOutcomeReport(p.config.RobotID, cmd, err)
	if err := p.report(ctx, report); err != nil {
		p.keepUnsent(span, report, err)
	}
	p.heartbeat(ctx, span)
}

func (p *CommandPoller) report(ctx context.Context, report usecases.OutcomeReport) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = p.config.ReportInterval
	policy.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		err := p.client.ReportOutcome(ctx, report)
		if err != nil && !errors.Is(err, domain.ErrConnectivity) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, p.config.ReportRetries), ctx))
}

func (p *CommandPoller) keepUnsent(span trace.Span, report usecases.OutcomeReport, err error) {
	if !errors.Is(err, domain.ErrConnectivity) {
		logSpan(span, slog.LevelWarn, "outcome rejected by dispatch queue", err)
		return
	}

	logSpan(span, slog.LevelWarn, "outcome not delivered, retrying next tick", err)
	p.mu.Lock()
	p.unsent = &report
	p.mu.Unlock()
}

// flushUnsent resends a pending outcome before anything new is claimed. It
// returns false while the dispatch queue stays unreachable.
func (p *CommandPoller) flushUnsent(ctx context.Context, span trace.Span) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.unsent == nil {
		return true
	}

	err := p.client.ReportOutcome(ctx, *p.unsent)
	if errors.Is(err, domain.ErrConnectivity) {
		logSpan(span, slog.LevelWarn, "outcome still not delivered", err)
		return false
	}
	if err != nil {
		logSpan(span, slog.LevelWarn, "late outcome rejected by dispatch queue", err)
	}
	p.unsent = nil
	return true
}

func (p *CommandPoller) heartbeat(ctx context.Context, span trace.Span) {
	if err := p.client.ReportStatus(ctx, p.state.Snapshot()); err != nil {
		logSpan(span, slog.LevelDebug, "heartbeat not delivered", err)
	}
}

func logSpan(span trace.Span, level slog.Level, msg string, err error) {
	span.RecordError(err)
	slog.Log(context.Background(), level, msg,
		slog.String("trace_id", span.SpanContext().TraceID().String()),
		slog.String("span_id", span.SpanContext().SpanID().String()),
		slog.Any("error", err),
	)
}
