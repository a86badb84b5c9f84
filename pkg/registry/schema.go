// pkg/registry/schema.go
package registry

// SectionRegistry describes the document sections, the remote endpoints that
// serve them and the job task types that process documents.
type SectionRegistry struct {
	Version     string    `json:"version"`
	LastUpdated string    `json:"lastUpdated"`
	BaseURL     string    `json:"baseUrl"`
	Sections    []Section `json:"sections"`
	Tasks       []Task    `json:"tasks"`
}

type Section struct {
	Key         string   `json:"key"`
	DocumentKey string   `json:"documentKey"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Position    int      `json:"position"`
	Endpoint    string   `json:"endpoint"`
	URL         string   `json:"url"`
	Scalars     []string `json:"scalars,omitempty"`
	Booleans    []string `json:"booleans,omitempty"`
	Collections []string `json:"collections,omitempty"`
}

// Task is a job worker task type.
type Task struct {
	TaskType    string   `json:"taskType"`
	Description string   `json:"description"`
	Inputs      []string `json:"inputs"`
	Outputs     []string `json:"outputs"`
	ErrorCodes  []string `json:"errorCodes"`
	Timeout     string   `json:"timeout"`
}
