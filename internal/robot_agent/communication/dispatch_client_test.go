package communication_test

import (
	"context"
	"encoding/json"
	"errors"
	"nami-server/internal/infra/httpserver"
	"nami-server/internal/robot_agent/communication"
	"nami-server/internal/robot_agent/usecases"
	"nami-server/internal/shared_kernel/domain"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HTTPDispatchClient", func() {
	var (
		ctx     context.Context
		handler http.HandlerFunc
		server  *httptest.Server
		client  *communication.HTTPDispatchClient
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))

		var err error
		client, err = communication.NewHTTPDispatchClient(communication.HTTPDispatchClientOptions{BaseURL: server.URL + "/"})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	It("should reject a relative api base", func() {
		_, err := communication.NewHTTPDispatchClient(communication.HTTPDispatchClientOptions{BaseURL: "localhost"})
		Expect(err).To(HaveOccurred())
	})

	Context("ClaimNext", func() {
		It("should decode the claimed command with its details", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal("/v1/robot/commands/claim"))
				Expect(r.Header.Get(httpserver.RobotIDHeader)).To(Equal("nami-01"))

				var body map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
				Expect(body).To(HaveKeyWithValue("intents", ConsistOf("robot_control")))

				httpserver.ReplyJSONResponse(w, http.StatusOK, map[string]any{
					"id":          "cmd-1",
					"intent":      "delivery",
					"action":      "deliver",
					"target":      "Room 201",
					"details":     map[string]string{"item": "files", "from": "Records", "to": "Room 201"},
					"status":      "executing",
					"retry_count": 1,
					"created_at":  "2025-10-11T09:00:00.000Z",
				})
			}

			cmd, ok, err := client.ClaimNext(ctx, "nami-01", []domain.Intent{domain.IntentRobotControl})
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(cmd.ID).To(Equal(domain.ID("cmd-1")))
			Expect(cmd.RetryCount).To(Equal(1))
			Expect(cmd.Details).To(Equal(domain.DeliveryDetails{Item: "files", From: "Records", To: "Room 201"}))
		})

		It("should report an empty queue", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}

			_, ok, err := client.ClaimNext(ctx, "nami-01", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("should keep unknown intents for the execution engine to reject", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				httpserver.ReplyJSONResponse(w, http.StatusOK, map[string]any{"id": "cmd-9", "intent": "teleport", "target": "Moon"})
			}

			cmd, ok, err := client.ClaimNext(ctx, "nami-01", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(cmd.Intent).To(Equal(domain.Intent("teleport")))
		})

		It("should treat server failures as connectivity problems", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to claim command")
			}

			_, _, err := client.ClaimNext(ctx, "nami-01", nil)
			Expect(errors.Is(err, domain.ErrConnectivity)).To(BeTrue())
		})

		It("should treat an unreachable server as a connectivity problem", func() {
			server.Close()

			_, _, err := client.ClaimNext(ctx, "nami-01", nil)
			Expect(errors.Is(err, domain.ErrConnectivity)).To(BeTrue())
		})
	})

	Context("ReportOutcome", func() {
		It("should send the failure reason and attempt", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.URL.Path).To(Equal("/v1/robot/commands/cmd-1/complete"))

				var body map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
				Expect(body).To(HaveKeyWithValue("success", false))
				Expect(body).To(HaveKeyWithValue("error_message", "path obstructed"))
				Expect(body).To(HaveKeyWithValue("retry_count", BeNumerically("==", 2)))
				httpserver.ReplyJSONResponse(w, http.StatusOK, map[string]any{"id": "cmd-1"})
			}

			err := client.ReportOutcome(ctx, usecases.OutcomeReport{
				CommandID:    "cmd-1",
				RobotID:      "nami-01",
				RetryCount:   2,
				ErrorMessage: "path obstructed",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should map a rejected report to an invalid transition", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				httpserver.ReplyWithError(w, http.StatusConflict, "command cmd-1 is completed, not executing")
			}

			err := client.ReportOutcome(ctx, usecases.OutcomeReport{CommandID: "cmd-1", Success: true})
			Expect(errors.Is(err, domain.ErrInvalidTransition)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("not executing"))
		})
	})

	Context("ReportStatus", func() {
		It("should put the heartbeat", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.Method).To(Equal(http.MethodPut))
				Expect(r.URL.Path).To(Equal("/v1/robot/status"))
				w.WriteHeader(http.StatusNoContent)
			}

			err := client.ReportStatus(ctx, domain.NewRobotState("nami-01", "Nurse Station"))
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
