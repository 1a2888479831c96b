package auth

import (
	"fmt"

	"server-runner/internal/shared/svcerrors"
)

// AuthService errors
const (
	codeInvalidCredentials   = "AUTH_1000"
	codeIncompleteLogin      = "AUTH_1001"
	codeMissingAuthorization = "AUTH_1002"
	codeInvalidToken         = "AUTH_1003"
	codeLoginRateLimited     = "AUTH_1004"
	codeMalformedHeader      = "AUTH_1005"

	codeInternalTokenSigningFailed = "AUTH_9000"
)

func errInvalidCredentials() *svcerrors.ServiceError {
	return svcerrors.NewUnauthenticatedError(codeInvalidCredentials, "invalid credentials", nil)
}

func errIncompleteLogin() *svcerrors.ServiceError {
	return svcerrors.NewUnauthenticatedError(codeIncompleteLogin, "login information incomplete", nil)
}

// ErrMissingAuthorization is returned by the transport when a protected route has no Authorization header.
func ErrMissingAuthorization() *svcerrors.ServiceError {
	return svcerrors.NewUnauthenticatedError(codeMissingAuthorization, "authorization header is required", nil)
}

// ErrMalformedAuthorization is returned when the Authorization header is not "Bearer <token>".
func ErrMalformedAuthorization() *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeMalformedHeader, "authorization header must be 'Bearer <token>'", nil)
}

func errInvalidToken(cause error) *svcerrors.ServiceError {
	return svcerrors.NewUnauthenticatedError(codeInvalidToken, "invalid or expired token", cause)
}

func errLoginRateLimited() *svcerrors.ServiceError {
	return svcerrors.NewResourceExhaustedError(codeLoginRateLimited, "too many login attempts, try again later", nil)
}

func errInternalTokenSigningFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalTokenSigningFailed, fmt.Errorf("tokenSigningFailed: %w", cause))
}
