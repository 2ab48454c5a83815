package domain

import "errors"

// Account lifecycle errors.
var (
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidRole          = errors.New("invalid role_id")
	ErrRoleNotFound         = errors.New("role not found")
	ErrAccountNotFound      = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountDisabled      = errors.New("user account is disabled")
	ErrAlreadyDisabled      = errors.New("user is already disabled")
	ErrAlreadyEnabled       = errors.New("user is already enabled")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
)

// Token and request gate errors.
var (
	ErrTokenMissing          = errors.New("token is missing")
	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenInvalidSignature = errors.New("invalid token signature")
	ErrTokenMalformed        = errors.New("malformed token")
	ErrMissingAuthHeader     = errors.New("missing or invalid authorization header")
	ErrNotAuthenticated      = errors.New("user not authenticated")
	ErrPermissionDenied      = errors.New("not enough permissions")
)

// Call analysis errors.
var (
	ErrCallNotFound       = errors.New("call not found")
	ErrTranscriptMissing  = errors.New("call has no transcript")
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrAnalysisNotFound   = errors.New("no analysis found for this call")
	ErrAnalysisInProgress = errors.New("analysis already in progress")
	ErrOperatorNotFound   = errors.New("no data found for this operator")
	ErrScoringOutput      = errors.New("scoring output is not valid json")
	ErrScorerUnavailable  = errors.New("scoring model unavailable")
	ErrQueueClosed        = errors.New("analysis queue is shutting down")
)

// ValidationError describes malformed input. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
