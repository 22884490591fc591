package bootstrap

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"os"

	"github.com/jt828/go-graphql-tracing/pkg/snowflake"
	snowflakeImpl "github.com/jt828/go-graphql-tracing/pkg/snowflake/implementation"
)

const maxNodeID = 1024

func InitializeSnowflake() (snowflake.Snowflake, error) {
	nodeID, err := PodNodeID()
	if err != nil {
		return nil, err
	}
	return snowflakeImpl.NewSnowflake(nodeID)
}

// PodNodeID hashes HOSTNAME, falling back to os.Hostname outside a pod.
func PodNodeID() (int64, error) {
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		h, err := os.Hostname()
		if err != nil {
			return 0, fmt.Errorf("resolve hostname: %w", err)
		}
		hostname = h
	}
	if hostname == "" {
		return 0, fmt.Errorf("hostname is empty")
	}

	return nodeIDFor(hostname), nil
}

func nodeIDFor(hostname string) int64 {
	h := fnv.New64a()
	h.Write([]byte(hostname))
	return int64(binary.BigEndian.Uint64(h.Sum(nil)) % maxNodeID)
}
