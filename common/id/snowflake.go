// Package id generates submission ids: time-ordered, globally unique
// identifiers minted fresh each time a client starts a new interview
// (spec §6).
package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID. Call once
// at process startup, keyed by a stable per-instance node id (spec's
// ambient deployment concern, not per-request).
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new globally unique int64 ID using the Snowflake algorithm.
// IDs are time-ordered and unique across distributed instances.
func New() int64 {
	return node.Generate().Int64()
}

// NewSubmissionID mints a new submission id for a freshly started
// interview, as the opaque string carried in InterviewState.SubmissionID.
func NewSubmissionID() string {
	return node.Generate().String()
}
