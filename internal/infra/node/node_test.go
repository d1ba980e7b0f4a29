package node_test

import (
	"log/slog"
	"nami-server/internal/infra/node"
	"net"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Node", func() {
	ginkgo.AfterEach(func() {
		node.SetRole(node.RoleAPI)
	})

	ginkgo.Context("GetNodeInfo", func() {
		ginkgo.It("should return node information with all fields", func() {
			nodeInfo := node.GetNodeInfo()

			gomega.Expect(nodeInfo).ToNot(gomega.BeNil())
			gomega.Expect(nodeInfo.ID).ToNot(gomega.BeEmpty())
			gomega.Expect(nodeInfo.Hostname).ToNot(gomega.BeEmpty())
			gomega.Expect(nodeInfo.Version).ToNot(gomega.BeEmpty())
			gomega.Expect(nodeInfo.CommitHash).ToNot(gomega.BeEmpty())
			gomega.Expect(nodeInfo.Role).To(gomega.Equal(node.RoleAPI))
		})

		ginkgo.It("should keep the same node ID across calls", func() {
			gomega.Expect(node.GetNodeInfo().ID).To(gomega.Equal(node.GetNodeInfo().ID))
			gomega.Expect(node.GetNodeInfo().ID).To(gomega.HaveLen(36))
		})

		ginkgo.It("should return a valid IP address", func() {
			ip := net.ParseIP(node.GetNodeInfo().IPAddress)
			gomega.Expect(ip).ToNot(gomega.BeNil())
		})

		ginkgo.It("should report the configured role", func() {
			node.SetRole(node.RoleRobot)
			gomega.Expect(node.GetNodeInfo().Role).To(gomega.Equal(node.RoleRobot))
		})
	})

	ginkgo.Context("LogAttrs", func() {
		ginkgo.It("should carry the version attribute", func() {
			attrs := node.GetNodeInfo().LogAttrs()
			gomega.Expect(attrs).To(gomega.ContainElement(slog.String("version", node.Version)))
		})
	})
})
