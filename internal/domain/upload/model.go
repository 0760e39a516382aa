// Package upload tracks uploaded proof files by filename so a recharge
// screenshot can never be presented twice.
package upload

import "time"

// Record is one content-addressed proof registration. Filenames are
// unique; a reused filename marks a duplicate proof.
type Record struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadType string    `json:"uploadType"`
	RelatedID  string    `json:"relatedId,omitempty"`
	AgentID    string    `json:"agentId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
