package domain

// CollectionState represents the overall status of a collection job.
// Values include CollectionPending, CollectionRunning, CollectionCompleted,
// and CollectionError.
type CollectionState string

const (
	CollectionIdle      CollectionState = "idle"
	CollectionPending   CollectionState = "pending"
	CollectionRunning   CollectionState = "collecting"
	CollectionCompleted CollectionState = "completed"
	CollectionError     CollectionState = "error"
)

// SourceState represents the status of a single data source within a job.
type SourceState string

const (
	SourcePending    SourceState = "pending"
	SourceCollecting SourceState = "collecting"
	SourceCompleted  SourceState = "completed"
	SourceFailed     SourceState = "failed"
)

// Terminal reports whether the source has finished, successfully or not.
func (s SourceState) Terminal() bool {
	return s == SourceCompleted || s == SourceFailed
}

// SourceStatus is the per-source slice of a collection status report.
type SourceStatus struct {
	Status  SourceState `json:"status"`
	Message string      `json:"message,omitempty"`
}

// CollectionStatus is the backend's report for one customer's collection job.
type CollectionStatus struct {
	Status    CollectionState         `json:"status"`
	Progress  int                     `json:"progress"`
	Message   string                  `json:"message"`
	Completed bool                    `json:"completed"`
	Error     string                  `json:"error,omitempty"`
	Sources   map[string]SourceStatus `json:"sources,omitempty"`
}

// CollectionRequest is the payload that starts a collection job.
type CollectionRequest struct {
	Days           int  `json:"days"`
	CollectHistory bool `json:"collect_history"`
}
