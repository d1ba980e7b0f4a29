package internal_test

import (
	"encoding/json"
	"nami-server/internal/control_plane/httpapi/internal"
	"nami-server/internal/shared_kernel/domain"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CommandResponse", func() {
	It("should render pending commands with null completion fields", func() {
		createdAt := time.Date(2025, 10, 11, 9, 0, 0, 0, time.UTC)
		cmd, err := domain.NewCommandBuilder().
			WithIntent(domain.IntentDelivery).
			WithAction(domain.ActionDeliver).
			WithTarget("Room 201").
			WithDetails(domain.DeliveryDetails{Item: "files", From: "Records", To: "Room 201"}).
			WithCreatedAt(createdAt).
			Build()
		Expect(err).NotTo(HaveOccurred())

		response, err := internal.FromCommand(cmd)
		Expect(err).NotTo(HaveOccurred())

		payload, err := json.Marshal(response)
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]any
		Expect(json.Unmarshal(payload, &decoded)).To(Succeed())
		Expect(decoded).To(HaveKeyWithValue("status", "pending"))
		Expect(decoded).To(HaveKeyWithValue("completed_at", BeNil()))
		Expect(decoded).To(HaveKeyWithValue("error_message", BeNil()))
		Expect(decoded).To(HaveKeyWithValue("created_at", "2025-10-11T09:00:00.000Z"))
		Expect(decoded).To(HaveKeyWithValue("details", HaveKeyWithValue("from", "Records")))
		Expect(decoded).NotTo(HaveKey("claimed_at"))
	})

	It("should carry the request details into the usecase request", func() {
		var body internal.CommandCreateRequest
		err := json.Unmarshal([]byte(`{
			"intent": "medicine_delivery",
			"target": "302",
			"details": {"medicine": "Metformin", "patient": "John Doe", "room": "302"},
			"time": "11am"
		}`), &body)
		Expect(err).NotTo(HaveOccurred())

		req := body.ToUsecase()
		Expect(req.Intent).To(Equal("medicine_delivery"))
		Expect(req.Details.Medicine).To(Equal("Metformin"))
		Expect(req.Details.Room).To(Equal("302"))
		Expect(req.Time).To(Equal("11am"))
	})
})
