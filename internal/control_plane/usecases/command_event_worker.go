package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"nami-server/internal/infra/async"
	"nami-server/internal/shared_kernel/domain"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// NewCommandEventWorker forwards every stored transition to the given
// notifiers. A failing notifier is logged and never blocks the others.
func NewCommandEventWorker(
	broker async.InternalBroker,
	notifiers ...CommandEventNotifier,
) *CommandEventWorker {
	return &CommandEventWorker{
		broker:    broker,
		notifiers: notifiers,
	}
}

var _ async.Worker = &CommandEventWorker{}

type CommandEventWorker struct {
	broker    async.InternalBroker
	notifiers []CommandEventNotifier
}

func (w *CommandEventWorker) Run(ctx context.Context, done func()) {
	slog.Debug("command event worker run with context initialized")
	defer done()

	subscription, err := w.broker.Subscribe(CommandEventsTopic)
	if err != nil {
		slog.Error("subscribing to command events topic", slog.Any("error", err))
		return
	}
	defer func() {
		_ = w.broker.Unsubscribe(CommandEventsTopic, subscription)
	}()

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			slog.Debug("command event worker context done, waiting for pending notifications")
			wg.Wait()
			return
		case msg, ok := <-subscription.Receiver:
			if !ok {
				wg.Wait()
				return
			}
			event, isEvent := msg.Value.(domain.CommandEvent)
			if !isEvent {
				slog.Warn("invalid command event format", slog.String("type", fmt.Sprintf("%T", msg.Value)))
				continue
			}
			// notifications for one event run in parallel, events stay ordered
			w.dispatch(ctx, event, &wg)
			wg.Wait()
		}
	}
}

func (w *CommandEventWorker) Shutdown() {
	slog.Debug("command event worker shutdown")
}

func (w *CommandEventWorker) dispatch(ctx context.Context, event domain.CommandEvent, wg *sync.WaitGroup) {
	for _, notifier := range w.notifiers {
		wg.Add(1)
		go func(n CommandEventNotifier) {
			defer wg.Done()
			w.notify(ctx, n, event)
		}(notifier)
	}
}

func (w *CommandEventWorker) notify(ctx context.Context, notifier CommandEventNotifier, event domain.CommandEvent) {
	ctx, span := otel.Tracer("nami_server").Start(ctx, "notify-command-event")
	defer span.End()
	span.SetAttributes(
		attribute.String("command.id", event.CommandID.String()),
		attribute.String("command.event", event.Type),
		attribute.String("notifier", fmt.Sprintf("%T", notifier)),
	)

	if err := notifier.Notify(ctx, event); err != nil {
		logSpanError(span, "forwarding command event", err)
	}
}
