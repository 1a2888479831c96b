package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackupFileName(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 8, 27, 0, 34, 27, 0, time.UTC)
	assert.Equal(t, "finger_20240827_003427.zip", NewBackupFileName("finger", at))

	// converted to UTC
	local := time.Date(2024, 8, 27, 2, 34, 27, 0, time.FixedZone("CEST", 2*60*60))
	assert.Equal(t, "server_20240827_003427.zip", NewBackupFileName("server", local))
}

func TestIsValidBaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"server", true},
		{"bebok", true},
		{"my-world_2", true},
		{"", false},
		{"../world", false},
		{"world.zip", false},
		{"with space", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidBaseName(tt.name))
		})
	}
}

func TestIsBackupFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		want       bool
		restorable bool
	}{
		{"finger_20240827_003427.zip", true, true},
		{"mcdata_20240101_000000.zip", true, true},
		{"world_20240101_000000.tar.gz", true, false},
		{"world_20240101_000000.7z", true, false},
		{"world_20240101_000000.rar", false, false},
		{"world_2024010_000000.zip", false, false},
		{"world.zip", false, false},
		{"../world_20240101_000000.zip", false, false},
		{"dir/world_20240101_000000.zip", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBackupFileName(tt.name))
			assert.Equal(t, tt.restorable, IsRestorable(tt.name))
		})
	}
}

func TestParseBackupFileName(t *testing.T) {
	t.Parallel()

	base, ts, err := ParseBackupFileName("my-world_20240827_003427.zip")
	require.NoError(t, err)
	assert.Equal(t, "my-world", base)
	assert.Equal(t, time.Date(2024, 8, 27, 0, 34, 27, 0, time.UTC), ts)

	_, _, err = ParseBackupFileName("nope.zip")
	assert.Error(t, err)

	_, _, err = ParseBackupFileName("world_20241399_003427.zip")
	assert.Error(t, err)
}

func TestNewTransferRecords(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 8, 27, 0, 34, 27, 0, time.UTC)

	up := NewUploadRecord("bucket", "a_20240827_003427.zip", 10, 2*time.Second, at)
	assert.Equal(t, TransferUpload, up.Direction)
	assert.Equal(t, 2.0, up.UploadTimeSeconds)
	assert.Zero(t, up.DownloadDuration)

	down := NewDownloadRecord("bucket", "a_20240827_003427.zip", 10, 500*time.Millisecond, at)
	assert.Equal(t, TransferDownload, down.Direction)
	assert.Equal(t, 0.5, down.DownloadTimeSeconds)
	assert.Zero(t, down.UploadDuration)
}
