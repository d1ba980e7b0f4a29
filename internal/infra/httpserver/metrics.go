package httpserver

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"regexp"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	callerRobot = "robot"
	callerStaff = "staff"
)

var (
	_instruments     *requestInstruments
	_instrumentsOnce sync.Once

	_commandIDSegment = regexp.MustCompile(`/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}(/|$)`)
)

var errHijackUnsupported = errors.New("underlying ResponseWriter does not support hijacking")

type requestInstruments struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func instruments() *requestInstruments {
	_instrumentsOnce.Do(func() {
		_instruments = newRequestInstruments(otel.GetMeterProvider().Meter("nami-server/httpserver"))
	})
	return _instruments
}

func newRequestInstruments(meter metric.Meter) *requestInstruments {
	duration, err := meter.Float64Histogram(
		"nami_server.http.request.duration.seconds",
		metric.WithDescription("Time spent serving staff and robot requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5),
	)
	if err != nil {
		panic(err)
	}

	total, err := meter.Int64Counter(
		"nami_server.http.requests.total",
		metric.WithDescription("Requests served, by route, caller and status"),
	)
	if err != nil {
		panic(err)
	}

	inFlight, err := meter.Int64UpDownCounter(
		"nami_server.http.requests.in_flight",
		metric.WithDescription("Requests currently being served"),
	)
	if err != nil {
		panic(err)
	}

	return &requestInstruments{duration: duration, total: total, inFlight: inFlight}
}

// MetricsMiddleware records latency and counts per route. Requests carrying
// the robot header are labelled as robot traffic.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return instruments().middleware
}

func (m *requestInstruments) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		base := []attribute.KeyValue{
			attribute.String("http.method", r.Method),
			attribute.String("http.route", routeOf(r.URL.Path)),
			attribute.String("nami.caller", callerOf(r)),
		}

		m.inFlight.Add(r.Context(), 1, metric.WithAttributes(base...))
		defer m.inFlight.Add(r.Context(), -1, metric.WithAttributes(base...))

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		attrs := append(base, attribute.Int("http.status_code", recorder.status))
		m.duration.Record(r.Context(), time.Since(start).Seconds(), metric.WithAttributes(attrs...))
		m.total.Add(r.Context(), 1, metric.WithAttributes(attrs...))
	})
}

func callerOf(r *http.Request) string {
	if r.Header.Get(RobotIDHeader) != "" {
		return callerRobot
	}
	return callerStaff
}

// routeOf folds command ids into the {id} placeholder used by the router so
// the route label stays low cardinality.
func routeOf(path string) string {
	if path == "" {
		return "/"
	}
	return _commandIDSegment.ReplaceAllString(path, "/{id}$1")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack keeps the command event websocket working behind the middleware.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errHijackUnsupported
	}
	return hijacker.Hijack()
}
