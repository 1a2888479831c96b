package models

import "time"

type HistoryOperation string

const (
	OperationCreate   HistoryOperation = "create"
	OperationDelete   HistoryOperation = "delete"
	OperationLoad     HistoryOperation = "load"
	OperationUpload   HistoryOperation = "upload"
	OperationSnapshot HistoryOperation = "snapshot"
	OperationSyncUp   HistoryOperation = "sync_upload"
	OperationSyncDown HistoryOperation = "sync_download"
)

// HistoryEntry is one audited backup operation.
type HistoryEntry struct {
	ID        uint              `json:"id"`
	Operation HistoryOperation  `json:"operation"`
	FileName  string            `json:"fileName"`
	SizeBytes int64             `json:"sizeBytes"`
	Checksum  string            `json:"checksum,omitempty"`
	Actor     string            `json:"actor,omitempty"`
	Client    string            `json:"client,omitempty"`
	Duration  time.Duration     `json:"durationNs"`
	Details   map[string]string `json:"details,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}
