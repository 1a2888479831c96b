package serverlogs

import (
	"fmt"

	"server-runner/internal/shared/svcerrors"
)

const (
	codeLogFileNotFound = "LOG_1000"

	codeInternalLogReadFailed = "LOG_9000"
)

func errLogFileNotFound(cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(codeLogFileNotFound, "server log file not found", cause)
}

func errInternalLogReadFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalLogReadFailed, fmt.Errorf("logReadFailed: %w", cause))
}
