package http

import (
	"server-runner/internal/shared/svcerrors"
)

// Transport errors
const (
	codeInvalidRequestBody = "HTTP_1000"
	codeInvalidQueryParam  = "HTTP_1001"
	codeMissingUploadFile  = "HTTP_1002"
	codeUnsupportedMedia   = "HTTP_1003"
)

func errInvalidRequestBody(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidRequestBody, "request body is not valid JSON", cause)
}

func errInvalidQueryParam(name string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidQueryParam, "invalid query parameter: "+name, cause)
}

func errMissingUploadFile(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeMissingUploadFile, "multipart field 'file' is required", cause)
}

func errUnsupportedMedia(got string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeUnsupportedMedia, "expected multipart/form-data, got "+got, nil)
}
