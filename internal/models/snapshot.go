package models

// Snapshot is the full persisted state, overwritten on every mutation and
// reloaded on startup.
type Snapshot struct {
	Users    []User           `json:"users"`
	Requests []FundingRequest `json:"requests"`
}
