package models

import "time"

type TransferDirection string

const (
	TransferUpload   TransferDirection = "upload"
	TransferDownload TransferDirection = "download"
)

// TransferRecord describes one file moved between the backups directory and the remote bucket.
// Only one of the upload/download durations is non-zero, depending on Direction.
type TransferRecord struct {
	Bucket              string            `json:"bucket"`
	FileName            string            `json:"fileName"`
	Direction           TransferDirection `json:"direction"`
	SizeBytes           int64             `json:"sizeBytes"`
	UploadDuration      time.Duration     `json:"uploadDuration"`
	UploadTimeSeconds   float64           `json:"uploadTimeSeconds"`
	DownloadDuration    time.Duration     `json:"downloadDuration"`
	DownloadTimeSeconds float64           `json:"downloadTimeSeconds"`
	Skipped             bool              `json:"skipped,omitempty"`
	DateAccessed        time.Time         `json:"dateAccessed"`
}

func NewUploadRecord(bucket, fileName string, size int64, took time.Duration, at time.Time) TransferRecord {
	return TransferRecord{
		Bucket:            bucket,
		FileName:          fileName,
		Direction:         TransferUpload,
		SizeBytes:         size,
		UploadDuration:    took,
		UploadTimeSeconds: took.Seconds(),
		DateAccessed:      at.UTC(),
	}
}

func NewDownloadRecord(bucket, fileName string, size int64, took time.Duration, at time.Time) TransferRecord {
	return TransferRecord{
		Bucket:              bucket,
		FileName:            fileName,
		Direction:           TransferDownload,
		SizeBytes:           size,
		DownloadDuration:    took,
		DownloadTimeSeconds: took.Seconds(),
		DateAccessed:        at.UTC(),
	}
}
