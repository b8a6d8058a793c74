package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeOK                 ErrorCode = "OK"
	ErrCodeUnknown            ErrorCode = "COMMON_000"
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeExternalService    ErrorCode = "COMMON_010"
)

// Retrieval module error codes
const (
	ErrCodeLinkQueryFailed    ErrorCode = "RET_001"
	ErrCodeSummaryQueryFailed ErrorCode = "RET_002"
	ErrCodeSummaryMissing     ErrorCode = "RET_003"
	ErrCodeNoDataFound        ErrorCode = "RET_004"
)

// Analysis module error codes
const (
	ErrCodeEmptyCorpus      ErrorCode = "ANA_001"
	ErrCodeVectorizeFailed  ErrorCode = "ANA_002"
	ErrCodeClusteringFailed ErrorCode = "ANA_003"
	ErrCodeProjectionFailed ErrorCode = "ANA_004"
)

// HTTPStatus maps an error code to the HTTP status the boundary layer should
// respond with. Unknown codes map to 500.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeOK:
		return http.StatusOK
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeNoDataFound, ErrCodeEmptyCorpus:
		return http.StatusNotFound
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrCodeServiceUnavailable, ErrCodeExternalService:
		return http.StatusServiceUnavailable
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
