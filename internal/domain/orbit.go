package domain

// Orbit is the payload shape of an orbit record. The persisted value is
// the generic JSON object; this struct documents the canonical fields.
type Orbit struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Feeds       map[string]string `json:"feeds"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt,omitempty"`
}

// Record is a stored record addressed by (Repo, Collection, Rkey).
// URI is immutable once assigned; CID tracks the current content.
type Record struct {
	Repo       string         `json:"repo"`
	Collection string         `json:"collection"`
	Rkey       string         `json:"rkey"`
	URI        string         `json:"uri"`
	CID        string         `json:"cid"`
	Value      map[string]any `json:"value"`
}

// Event is broadcast to realtime subscribers after a successful mutation.
type Event struct {
	Kind string `json:"kind"`
	URI  string `json:"uri"`
	CID  string `json:"cid"`
}
