package model

// TaskFilter holds criteria for querying tasks.
type TaskFilter struct {
	Status []Status `json:"status,omitempty"`
	Search string   `json:"search,omitempty"` // substring match on title/description
	Tag    string   `json:"tag,omitempty"`    // substring match on tags
	Limit  int      `json:"limit,omitempty"`
	Offset int      `json:"offset,omitempty"`
}
