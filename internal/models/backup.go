package models

import "time"

// BackupInfo describes one archive in the backups directory.
//
// Example JSON:
//
//	{
//	  "fileName": "server_20240827_003427.zip",
//	  "baseName": "server",
//	  "sizeBytes": 52428800,
//	  "createdAt": "2024-08-27T00:34:27Z",
//	  "checksum": "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
//	}
//
// Checksum (SHA-256, hex) is only set when the archive was produced or received by this
// process; listing never re-hashes files. CreatedAt comes from the timestamp in the name,
// falling back to the file's modification time.
type BackupInfo struct {
	FileName  string        `json:"fileName"`
	BaseName  string        `json:"baseName,omitempty"`
	SizeBytes int64         `json:"sizeBytes"`
	CreatedAt time.Time     `json:"createdAt"`
	Checksum  string        `json:"checksum,omitempty"`
	Duration  time.Duration `json:"durationNs,omitempty"`
}

// LoadResult describes a restore: the archive that was loaded, the safety snapshot taken
// of the previous data directory, and whether the server container was restarted.
type LoadResult struct {
	Restored           BackupInfo    `json:"restored"`
	Snapshot           BackupInfo    `json:"snapshot"`
	RestoredFiles      int           `json:"restoredFiles"`
	ContainerRestarted bool          `json:"containerRestarted"`
	Duration           time.Duration `json:"durationNs"`
}
