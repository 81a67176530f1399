package schema

const (
	// MaxContentLength is the longest memory content accepted at creation, in characters.
	MaxContentLength = 500
	// MaxTags is the largest number of tags a memory may carry.
	MaxTags = 10
)

// Memory is a single stored note with optional tags.
type Memory struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt Timestamp `json:"created_at"`
}

// NewMemory is the request body for creating a memory.
type NewMemory struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}
