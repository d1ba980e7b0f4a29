package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var _ = ginkgo.Describe("Request metrics", func() {
	ginkgo.Context("routeOf", func() {
		ginkgo.DescribeTable("folds command ids into the route placeholder",
			func(path, expected string) {
				gomega.Expect(routeOf(path)).To(gomega.Equal(expected))
			},
			ginkgo.Entry("empty path", "", "/"),
			ginkgo.Entry("health check", "/healthz", "/healthz"),
			ginkgo.Entry("command collection", "/v1/robot/commands", "/v1/robot/commands"),
			ginkgo.Entry("static next endpoint", "/v1/robot/commands/next", "/v1/robot/commands/next"),
			ginkgo.Entry("single command", "/v1/robot/commands/123e4567-e89b-12d3-a456-426614174000", "/v1/robot/commands/{id}"),
			ginkgo.Entry("completion report", "/v1/robot/commands/987fcdeb-51a2-43d7-8f9e-123456789abc/complete", "/v1/robot/commands/{id}/complete"),
		)
	})

	ginkgo.Context("callerOf", func() {
		ginkgo.It("should label requests with the robot header as robot traffic", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/robot/commands/claim", nil)
			req.Header.Set(RobotIDHeader, "nami-1")
			gomega.Expect(callerOf(req)).To(gomega.Equal(callerRobot))
		})

		ginkgo.It("should label everything else as staff traffic", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/robot/commands", nil)
			gomega.Expect(callerOf(req)).To(gomega.Equal(callerStaff))
		})
	})

	ginkgo.Context("MetricsMiddleware", func() {
		ginkgo.It("should count served requests", func() {
			reader := sdkmetric.NewManualReader()
			provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

			handler := newRequestInstruments(provider.Meter("test")).middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/robot/commands/claim", nil))
			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusNoContent))

			var collected metricdata.ResourceMetrics
			gomega.Expect(reader.Collect(context.Background(), &collected)).To(gomega.Succeed())
			gomega.Expect(collected.ScopeMetrics).To(gomega.HaveLen(1))

			names := []string{}
			for _, m := range collected.ScopeMetrics[0].Metrics {
				names = append(names, m.Name)
			}
			gomega.Expect(names).To(gomega.ContainElements(
				"nami_server.http.requests.total",
				"nami_server.http.request.duration.seconds",
			))
		})
	})

	ginkgo.Context("statusRecorder", func() {
		ginkgo.It("should remember the written status", func() {
			recorder := httptest.NewRecorder()
			wrapped := &statusRecorder{ResponseWriter: recorder, status: http.StatusOK}

			wrapped.WriteHeader(http.StatusConflict)
			_, err := wrapped.Write([]byte("claimed"))

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(wrapped.status).To(gomega.Equal(http.StatusConflict))
			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusConflict))
			gomega.Expect(recorder.Body.String()).To(gomega.Equal("claimed"))
		})

		ginkgo.It("should refuse to hijack a writer that cannot be hijacked", func() {
			wrapped := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
			_, _, err := wrapped.Hijack()
			gomega.Expect(err).To(gomega.MatchError(errHijackUnsupported))
		})
	})
})
