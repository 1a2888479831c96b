package backups

import (
	"fmt"

	"server-runner/internal/shared/svcerrors"
)

// BackupService errors
const (
	codeInvalidName      = "BAK_1000"
	codeBackupNotFound   = "BAK_1001"
	codeBackupExists     = "BAK_1002"
	codeUnsafeArchive    = "BAK_1003"
	codeOperationRunning = "BAK_1004"
	codeUploadTooLarge   = "BAK_1005"
	codeNotRestorable    = "BAK_1006"
	codeInvalidArchive   = "BAK_1007"
	codeDataDirMissing   = "BAK_1008"

	codeInternalArchiveFailed = "BAK_9000"
	codeInternalStorageFailed = "BAK_9001"
	codeInternalHistoryFailed = "BAK_9002"
	codeInternalRestoreFailed = "BAK_9003"
)

func errInvalidName(name string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidName, fmt.Sprintf("invalid backup name: %q", name), nil)
}

func errBackupNotFound(fileName string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(codeBackupNotFound, fmt.Sprintf("backup %q not found", fileName), cause)
}

func errBackupExists(fileName string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewResourceConflictError(codeBackupExists, fmt.Sprintf("backup %q already exists", fileName), cause)
}

func errUnsafeArchive(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeUnsafeArchive, "archive contains entries outside the data directory", cause)
}

func errOperationRunning() *svcerrors.ServiceError {
	return svcerrors.NewResourceConflictError(codeOperationRunning, "another backup or restore is in progress", nil)
}

func errUploadTooLarge(limit int64, cause error) *svcerrors.ServiceError {
	return svcerrors.NewPayloadTooLargeError(codeUploadTooLarge, fmt.Sprintf("upload exceeds the %d byte limit", limit), cause)
}

func errNotRestorable(fileName string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeNotRestorable, fmt.Sprintf("backup %q is not a zip archive and cannot be restored", fileName), nil)
}

func errInvalidArchive(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidArchive, "not a valid zip archive", cause)
}

func errDataDirMissing(cause error) *svcerrors.ServiceError {
	return svcerrors.NewFailedPreconditionError(codeDataDirMissing, "server data directory does not exist", cause)
}

func errInternalArchiveFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalArchiveFailed, fmt.Errorf("archiveFailed: %w", cause))
}

func errInternalStorageFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalStorageFailed, fmt.Errorf("backupStorageFailed: %w", cause))
}

func errInternalHistoryFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalHistoryFailed, fmt.Errorf("backupHistoryFailed: %w", cause))
}

func errInternalRestoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalRestoreFailed, fmt.Errorf("restoreFailed: %w", cause))
}
