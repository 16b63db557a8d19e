package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeDatabaseError      ErrorCode = "COMMON_009"
	ErrCodeCacheError         ErrorCode = "COMMON_010"
	ErrCodeUnknown            ErrorCode = "COMMON_999"

	CodeOK ErrorCode = "OK"
)

// Solver error codes.  These classify structural misuse of the field solver;
// physically degenerate inputs produce an Invalid SolveResult, not an error.
const (
	ErrCodeSolverInput      ErrorCode = "SOLVE_001"
	ErrCodeSolverMesh       ErrorCode = "SOLVE_002"
	ErrCodeSolverNoFreeNode ErrorCode = "SOLVE_003"
	ErrCodeSolverNoCurrent  ErrorCode = "SOLVE_004"
)

// Geometry error codes
const (
	ErrCodeGeometryDegenerate ErrorCode = "GEO_001"
	ErrCodeGeometryClip       ErrorCode = "GEO_002"
)

// Search error codes
const (
	ErrCodeSearchNoCandidates ErrorCode = "SEARCH_001"
	ErrCodeSearchRange        ErrorCode = "SEARCH_002"
)

// Export error codes
const (
	ErrCodeExportFormat ErrorCode = "EXPORT_001"
	ErrCodeExportEmpty  ErrorCode = "EXPORT_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,

	ErrCodeSolverInput:      http.StatusBadRequest,
	ErrCodeSolverMesh:       http.StatusBadRequest,
	ErrCodeSolverNoFreeNode: http.StatusUnprocessableEntity,
	ErrCodeSolverNoCurrent:  http.StatusUnprocessableEntity,

	ErrCodeGeometryDegenerate: http.StatusUnprocessableEntity,
	ErrCodeGeometryClip:       http.StatusUnprocessableEntity,

	ErrCodeSearchNoCandidates: http.StatusUnprocessableEntity,
	ErrCodeSearchRange:        http.StatusBadRequest,

	ErrCodeExportFormat: http.StatusBadRequest,
	ErrCodeExportEmpty:  http.StatusUnprocessableEntity,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}
