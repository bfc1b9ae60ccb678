// Package jobs defines the payloads carried by the work queue between
// dispatch and node execution.
package jobs

import (
	"time"

	"github.com/google/uuid"
)

type JobType string

// Topic is the queue topic all engine jobs travel on.
const Topic = "onsell.automation.jobs"

const JobKeyMetadataKey = "key"
const JobTypeMetadataKey = "job_type"

const (
	// NodeActivationJob asks a worker to execute one node of one run.
	NodeActivationJob JobType = "node.activation"
)

type BaseJob struct {
	ID           string    `json:"id"`
	Type         JobType   `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	AutomationID string    `json:"automation_id"`
	WorkerID     string    `json:"worker_id,omitempty"`
}

// NodeActivation is the continuation unit of the graph walk. The queue
// delivers it at least once; execution must tolerate duplicates.
type NodeActivation struct {
	BaseJob

	RunID         string  `json:"run_id"`
	NodeID        string  `json:"node_id"`
	ContactID     string  `json:"contact_id"`
	OpportunityID *string `json:"opportunity_id,omitempty"`
}

func (n NodeActivation) GetType() JobType {
	return NodeActivationJob
}

func NewBaseJob(jobType JobType, automationID string) BaseJob {
	return BaseJob{
		ID:           uuid.New().String(),
		Type:         jobType,
		Timestamp:    time.Now().UTC(),
		AutomationID: automationID,
	}
}
