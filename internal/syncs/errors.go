package syncs

import (
	"fmt"

	"server-runner/internal/shared/svcerrors"
)

// SyncService errors
const (
	codeNotConfigured  = "SYN_1000"
	codeAlreadyRunning = "SYN_1001"
	codeInvalidName    = "SYN_1002"
	codeBackupNotFound = "SYN_1003"

	codeInternalBucketFailed   = "SYN_9000"
	codeInternalListFailed     = "SYN_9001"
	codeInternalTransferFailed = "SYN_9002"
)

func errNotConfigured() *svcerrors.ServiceError {
	return svcerrors.NewFailedPreconditionError(codeNotConfigured, "remote backup storage is not configured", nil)
}

func errAlreadyRunning() *svcerrors.ServiceError {
	return svcerrors.NewResourceConflictError(codeAlreadyRunning, "a sync is already running", nil)
}

func errInvalidName(fileName string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidName, fmt.Sprintf("invalid backup file name: %q", fileName), nil)
}

func errBackupNotFound(fileName string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(codeBackupNotFound, fmt.Sprintf("backup %q not found", fileName), cause)
}

func errInternalBucketFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalBucketFailed, fmt.Errorf("ensureBucketFailed: %w", cause))
}

func errInternalListFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalListFailed, fmt.Errorf("listFailed: %w", cause))
}

func errInternalTransferFailed(direction, fileName string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalTransferFailed, fmt.Errorf("%sFailed %s: %w", direction, fileName, cause))
}
