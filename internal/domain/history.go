package domain

import "time"

// HistoryEntry is one recorded recommendation query.
type HistoryEntry struct {
	Query       string    `json:"query"`
	TopK        int       `json:"top_k"`
	ResultCount int       `json:"result_count"`
	At          time.Time `json:"at"`
}
