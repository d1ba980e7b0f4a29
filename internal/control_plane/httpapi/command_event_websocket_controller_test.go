package httpapi_test

import (
	"context"
	"nami-server/internal/control_plane/httpapi"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/async"
	"nami-server/internal/shared_kernel/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CommandEventWebSocketController", func() {
	var (
		broker     *async.LocalBroker
		controller *httpapi.CommandEventWebSocketController
		server     *httptest.Server
	)

	BeforeEach(func() {
		broker = async.NewLocalBroker()
		controller = httpapi.NewCommandEventWebSocketController(broker)
		Eventually(controller.Ready()).Should(BeClosed())

		router := http.NewServeMux()
		controller.AddRoutes(router)
		server = httptest.NewServer(router)
	})

	AfterEach(func() {
		server.Close()
		controller.Shutdown()
		broker.Stop()
	})

	It("should stream command transitions to connected clients", func() {
		url := strings.Replace(server.URL, "http", "ws", 1) + "/ws/command-events"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		Eventually(controller.ClientCount).Should(Equal(1))

		err = broker.Publish(context.Background(), usecases.CommandEventsTopic, async.BrokerMessage{
			Event: domain.EventComplete,
			Value: domain.CommandEvent{
				Type:       domain.EventComplete,
				CommandID:  "cmd-1",
				Intent:     domain.IntentNavigation,
				FromStatus: domain.CommandStatusExecuting,
				ToStatus:   domain.CommandStatusCompleted,
				OccurredAt: time.Date(2025, 10, 11, 9, 0, 0, 0, time.UTC),
			},
		})
		Expect(err).NotTo(HaveOccurred())

		var message map[string]any
		Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
		Expect(conn.ReadJSON(&message)).To(Succeed())
		Expect(message).To(HaveKeyWithValue("command_id", "cmd-1"))
		Expect(message).To(HaveKeyWithValue("to_status", "completed"))
		Expect(message).To(HaveKeyWithValue("occurred_at", "2025-10-11T09:00:00.000Z"))
	})

	It("should drop clients that disconnect", func() {
		url := strings.Replace(server.URL, "http", "ws", 1) + "/ws/command-events"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
		Eventually(controller.ClientCount).Should(Equal(1))

		conn.Close()

		Eventually(controller.ClientCount).Should(Equal(0))
	})
})
