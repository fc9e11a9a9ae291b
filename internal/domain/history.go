package domain

// HistoryEntry is one polished prompt kept in the local history. History is
// local-only state: it never reaches the plan store, is appended on
// successful completion of a polish, and is only ever cleared wholesale.
type HistoryEntry struct {
	ID        string `json:"id"`
	Original  string `json:"original"`
	Enhanced  string `json:"enhanced"`
	Timestamp int64  `json:"timestamp"`
}
