package containers

import (
	"fmt"

	"server-runner/internal/shared/svcerrors"
)

// ContainerService errors
const (
	codeAlreadyRunning = "CTR_1000"
	codeNotRunning     = "CTR_1001"
	codeDisabled       = "CTR_1002"

	codeInternalDockerFailed = "CTR_9000"
)

func errAlreadyRunning(name string) *svcerrors.ServiceError {
	return svcerrors.NewResourceConflictError(codeAlreadyRunning, fmt.Sprintf("container %q is already running", name), nil)
}

func errNotRunning(name string) *svcerrors.ServiceError {
	return svcerrors.NewResourceConflictError(codeNotRunning, fmt.Sprintf("container %q is not running", name), nil)
}

func errDisabled() *svcerrors.ServiceError {
	return svcerrors.NewFailedPreconditionError(codeDisabled, "container control is disabled", nil)
}

func errInternalDockerFailed(step string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalDockerFailed, fmt.Errorf("docker%sFailed: %w", step, cause))
}
