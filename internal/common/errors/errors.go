package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	// validation
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInputParsing     ErrorCode = "INPUT_PARSING_FAILED"

	// authentication and tenancy
	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodeTenancyViolation    ErrorCode = "TENANCY_VIOLATION"
	ErrCodeFranchiseIDNotFound ErrorCode = "FRANCHISE_ID_NOT_FOUND"
	ErrCodeAuthProviderFailed  ErrorCode = "AUTH_PROVIDER_FAILED"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"

	// resources
	ErrCodeBillNotFound     ErrorCode = "BILL_NOT_FOUND"
	ErrCodeMenuItemNotFound ErrorCode = "MENU_ITEM_NOT_FOUND"

	// backend
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeCacheFailed              ErrorCode = "CACHE_FAILED"

	// device and delivery
	ErrCodeReceiptDeliveryFailed ErrorCode = "RECEIPT_DELIVERY_FAILED"
	ErrCodeExportFailed          ErrorCode = "EXPORT_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// DeliveryHint is shown to the operator when a receipt or export could not be handed off.
const DeliveryHint = "check the recipient address and try again"

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error and returns it for chaining.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed", details, false, nil)
}

func NewInputParsingError(err error) *StandardError {
	return newError(ErrCodeInputParsing, "Failed to parse job variables", err.Error(), false, err)
}

// NewInvalidCredentialsError never reveals which account alias exists.
func NewInvalidCredentialsError() *StandardError {
	return newError(ErrCodeInvalidCredentials, "invalid credentials", "", false, nil)
}

func NewForbiddenError(details string) *StandardError {
	return newError(ErrCodeForbidden, "Operation not permitted for this account", details, false, nil)
}

func NewTenancyViolationError(requested, allowed string) *StandardError {
	return newError(ErrCodeTenancyViolation, "Franchise is outside the caller's scope",
		fmt.Sprintf("requested: %s, allowed: %s", requested, allowed), false, nil)
}

func NewFranchiseIDNotFoundError(email string) *StandardError {
	return newError(ErrCodeFranchiseIDNotFound, "Franchise identifier not found",
		fmt.Sprintf("no profile and no franchise encoding in email %q", email), false, nil)
}

func NewAuthProviderError(operation string, err error, retryable bool) *StandardError {
	return newError(ErrCodeAuthProviderFailed, fmt.Sprintf("Auth provider error during %s", operation),
		err.Error(), retryable, err)
}

func NewUserNotFoundError(email string) *StandardError {
	return newError(ErrCodeUserNotFound, "User not found", fmt.Sprintf("email: %s", email), false, nil)
}

func NewBillNotFoundError(billID string) *StandardError {
	return newError(ErrCodeBillNotFound, "Bill not found", fmt.Sprintf("billId: %s", billID), false, nil)
}

func NewMenuItemNotFoundError(itemID string) *StandardError {
	return newError(ErrCodeMenuItemNotFound, "Menu item not found", fmt.Sprintf("menuItemId: %s", itemID), false, nil)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true, err)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true, err)
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("queryType: %s", queryType), true, nil)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true, err)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true, err)
}

func NewCacheError(err error) *StandardError {
	return newError(ErrCodeCacheFailed, "Cache operation failed", err.Error(), true, err)
}

func NewReceiptDeliveryFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeReceiptDeliveryFailed, "Receipt delivery failed: "+DeliveryHint,
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true, err)
}

func NewExportFailedError(err error) *StandardError {
	return newError(ErrCodeExportFailed, "Spreadsheet export failed", err.Error(), false, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// AsStandardError unwraps err to a *StandardError if one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:         "VALIDATION_FAILED",
	ErrCodeInputParsing:             "VALIDATION_FAILED",
	ErrCodeInvalidCredentials:       "INVALID_CREDENTIALS",
	ErrCodeForbidden:                "FORBIDDEN",
	ErrCodeTenancyViolation:         "FORBIDDEN",
	ErrCodeFranchiseIDNotFound:      "FRANCHISE_ID_NOT_FOUND",
	ErrCodeAuthProviderFailed:       "AUTH_PROVIDER_FAILED",
	ErrCodeUserNotFound:             "USER_NOT_FOUND",
	ErrCodeBillNotFound:             "BILL_NOT_FOUND",
	ErrCodeMenuItemNotFound:         "MENU_ITEM_NOT_FOUND",
	ErrCodeDatabaseConnectionFailed: "BACKEND_UNAVAILABLE",
	ErrCodeQueryExecutionFailed:     "BACKEND_UNAVAILABLE",
	ErrCodeQueryTimeout:             "BACKEND_UNAVAILABLE",
	ErrCodeDatabaseInsertFailed:     "BACKEND_UNAVAILABLE",
	ErrCodeSearchQueryFailed:        "SEARCH_UNAVAILABLE",
	ErrCodeCacheFailed:              "BACKEND_UNAVAILABLE",
	ErrCodeReceiptDeliveryFailed:    "RECEIPT_DELIVERY_FAILED",
	ErrCodeExportFailed:             "EXPORT_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeAuthProviderFailed,
		ErrCodeReceiptDeliveryFailed:
		return 3

	case ErrCodeQueryTimeout, ErrCodeCacheFailed:
		return 2

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, ok := BPMNErrorMapping[stdErr.Code]
	if !ok {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	s := string(code)
	switch {
	case strings.Contains(s, "VALIDATION") || strings.Contains(s, "PARSING"):
		return "VALIDATION"
	case strings.Contains(s, "CREDENTIALS") || s == "FORBIDDEN" || strings.Contains(s, "TENANCY") ||
		strings.Contains(s, "AUTH") || strings.Contains(s, "USER"):
		return "AUTHENTICATION"
	case strings.HasSuffix(s, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(s, "DATABASE") || strings.Contains(s, "QUERY") ||
		strings.Contains(s, "SEARCH") || strings.Contains(s, "CACHE"):
		return "BACKEND"
	case strings.Contains(s, "DELIVERY") || strings.Contains(s, "EXPORT"):
		return "DEVICE"
	default:
		return "OTHER"
	}
}
