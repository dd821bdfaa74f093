package constants

// Common error messages
const (
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrInvalidJSONShort   = "Invalid JSON"
	ErrDB                 = "DB error"
	ErrInvalidRequestBody = "Invalid request body"
	ErrFailedToQuery      = "Failed to query"
	ErrMethodNotAllowed   = "Method Not Allowed"
)

// DB / SQL error templates
const (
	ErrTxStartFailed  = "failed to start transaction: "
	ErrTxCommitFailed = "failed to commit transaction: "
	ErrCommitFailed   = "commit failed: "
	ErrQueryFailed    = "query failed: "
	FormatSQLError    = "ERROR: %s"
)

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "Content-Type"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
	DateFormatAlt  = "02-01-2006"
	DateFormatISO  = "2006-01-02T15:04:05"
)
