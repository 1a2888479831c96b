package models

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

// BackupTimestampLayout is the UTC timestamp embedded in every backup file name.
const BackupTimestampLayout = "20060102_150405"

const ArchiveExtZip = ".zip"

var (
	baseNamePattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	backupFilePattern = regexp.MustCompile(`^([a-zA-Z0-9_-]+)_(\d{8}_\d{6})\.(zip|tar\.gz|gz|bz2|7z|xz)$`)
)

// IsValidBaseName reports whether name can prefix a backup file name.
func IsValidBaseName(name string) bool {
	return baseNamePattern.MatchString(name)
}

// NewBackupFileName builds "<base>_<YYYYMMDD_HHMMSS>.zip" for t in UTC.
func NewBackupFileName(base string, t time.Time) string {
	return fmt.Sprintf("%s_%s%s", base, t.UTC().Format(BackupTimestampLayout), ArchiveExtZip)
}

// IsBackupFileName reports whether fileName looks like an archive this service manages.
func IsBackupFileName(fileName string) bool {
	return fileName == path.Base(fileName) && backupFilePattern.MatchString(fileName)
}

// IsRestorable reports whether the archive format can be extracted. Only zip is supported.
func IsRestorable(fileName string) bool {
	return IsBackupFileName(fileName) && strings.HasSuffix(fileName, ArchiveExtZip)
}

// ParseBackupFileName splits a backup file name into its base name and timestamp.
func ParseBackupFileName(fileName string) (string, time.Time, error) {
	m := backupFilePattern.FindStringSubmatch(fileName)
	if m == nil {
		return "", time.Time{}, fmt.Errorf("invalid backup file name: %q", fileName)
	}
	ts, err := time.ParseInLocation(BackupTimestampLayout, m[2], time.UTC)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid backup timestamp in %q: %w", fileName, err)
	}
	return m[1], ts, nil
}
