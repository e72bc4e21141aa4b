// pkg/registry/schema.go
package registry

// ActivityRegistry is the published catalogue of task types a process model can use.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one worker: its task type, the variables it reads and writes, and how
// failures are retried.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"` // time.Duration string, e.g. "30s"
	Retries              int                    `json:"retries"`
	MaxJobsActive        int                    `json:"maxJobsActive,omitempty"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}
