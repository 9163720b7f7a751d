package schema

import "time"

// CacheStatus holds status information about the blame cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time,omitempty"`
	OldestEntryTime time.Time `json:"oldest_entry_time,omitempty"`
	TableSizeBytes  int64     `json:"table_size_bytes,omitempty"`
}
