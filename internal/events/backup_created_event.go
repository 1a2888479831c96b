package events

import "time"

// BackupCreatedEvent announces a new archive in the backups directory. It is consumed by the
// auto-upload worker, which mirrors the archive to the remote bucket.
//
// Example JSON:
//
//	{
//	  "fileName": "server_20240827_003427.zip",
//	  "sizeBytes": 52428800,
//	  "createdAt": "2024-08-27T00:34:27Z",
//	  "actor": "admin"
//	}
type BackupCreatedEvent struct {
	FileName  string    `json:"fileName"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
	Actor     string    `json:"actor,omitempty"`
}
