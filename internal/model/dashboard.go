package model

type IdentifierCount struct {
	Identifier string `json:"identifier"`
	Count      int    `json:"count"`
}

type PriorityCount struct {
	Priority int `json:"priority"`
	Count    int `json:"count"`
}

// BootInfo is a boot id with the timestamp (microseconds) of its first
// recorded entry.
type BootInfo struct {
	BootID    string `json:"boot_id"`
	Timestamp int64  `json:"timestamp"`
}

// DashboardData is the summary shown by the dashboard section. It is
// also the payload of the /api/dashboard-data endpoint.
type DashboardData struct {
	ErrorLogCount  int               `json:"error_log_count"`
	LogIdentifiers []IdentifierCount `json:"log_identifiers"`
	LogsByPriority []PriorityCount   `json:"logs_by_priority"`
	RecentBoots    []BootInfo        `json:"recent_boots"`
}
