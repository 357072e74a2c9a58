package models

// ComplaintStatistics holds grouped counts over the current complaint set.
// Groupings omit keys with zero occurrences; callers needing counts for
// known-but-unused categories must fall back to zero themselves.
type ComplaintStatistics struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	ByCategory   map[string]int `json:"by_category"`
	ByPriority   map[string]int `json:"by_priority"`
	ByDepartment map[string]int `json:"by_department"`
}
