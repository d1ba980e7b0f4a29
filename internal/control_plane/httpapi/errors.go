package httpapi

import (
	"errors"
	"log/slog"
	"nami-server/internal/infra/httpserver"
	"nami-server/internal/shared_kernel/domain"
	"net/http"
)

// replyWithDomainError maps the domain error taxonomy to a status code.
// Client errors echo the cause; anything else is logged and answered with
// fallback.
func replyWithDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCommandNotFound):
		httpserver.ReplyWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrDuplicateCommand):
		httpserver.ReplyWithError(w, http.StatusConflict, err.Error())
	default:
		span := httpserver.GetSpanFromContext(r)
		span.RecordError(err)
		slog.Error(fallback,
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
			slog.Any("error", err),
		)
		httpserver.ReplyWithError(w, http.StatusInternalServerError, fallback)
	}
}
