package domain

import "time"

// Record is a single item of a generic resource model (e.g. "food").
type Record struct {
	ID        string
	Model     string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Flatten renders the record the way clients see it: its data fields plus id.
func (r *Record) Flatten() map[string]any {
	out := make(map[string]any, len(r.Data)+1)
	for k, v := range r.Data {
		out[k] = v
	}
	out["id"] = r.ID
	return out
}
