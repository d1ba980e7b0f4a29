package node

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"
)

const (
	RoleAPI   = "api"
	RoleRobot = "robot"
)

// Node describes the running process. Both binaries attach it to their
// logger and to published events.
type Node struct {
	ID         string
	Role       string
	Hostname   string
	IPAddress  string
	Version    string
	CommitHash string
}

// Set at build time with -ldflags.
var Version = "development"
var CommitHash = "unknown"

var (
	nodeID     string
	nodeIDOnce sync.Once
	nodeIP     string
	nodeIPOnce sync.Once
	role       = RoleAPI
	roleMu     sync.RWMutex
)

func SetRole(r string) {
	roleMu.Lock()
	defer roleMu.Unlock()
	role = r
}

func GetNodeInfo() *Node {
	roleMu.RLock()
	current := role
	roleMu.RUnlock()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &Node{
		ID:         getNodeID(),
		Role:       current,
		Hostname:   hostname,
		IPAddress:  getNodeIPAddress(),
		Version:    Version,
		CommitHash: CommitHash,
	}
}

// LogAttrs returns the attributes every log line of this process carries.
func (n *Node) LogAttrs() []any {
	return []any{
		slog.String("version", n.Version),
		slog.String("node_id", n.ID),
		slog.String("role", n.Role),
	}
}

func getNodeID() string {
	nodeIDOnce.Do(func() {
		nodeID = uuid.New().String()
	})
	return nodeID
}

func getNodeIPAddress() string {
	nodeIPOnce.Do(func() {
		nodeIP = firstUnicastAddress()
	})
	return nodeIP
}

func firstUnicastAddress() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() || ipNet.IP.To4() == nil {
			continue
		}
		return ipNet.IP.String()
	}
	return "127.0.0.1"
}
