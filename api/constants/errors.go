package constants

// ============================================================================
// UPLOAD & FILE READ ERRORS
// ============================================================================

const (
	ErrMissingFile     = "No file was attached to the upload. Please attach a file and try again"
	ErrFileTooLarge    = "The uploaded file exceeds the maximum allowed size"
	ErrMissingPlatform = "platform is required"
	ErrUnknownPlatform = "The requested platform is not supported"
	ErrUnknownFormat   = "Could not determine the file format. Supported formats: xlsx, xls, csv, pdf"
	ErrUnreadableFile  = "The file could not be parsed in the declared format. Please verify the file and its extension"
	ErrEmptyFile       = "The file contains no rows. Please upload a file with actual data"
	ErrPdfParserDown   = "The PDF conversion service is unavailable. Please try again later or upload an Excel export"
)

// ============================================================================
// EXTRACTION & VALIDATION ERRORS
// ============================================================================

const (
	ErrNoLineItems     = "No line items were found in the file"
	ErrMissingColumn   = "A required column is missing from the file"
	ErrUnparseableCell = "A cell could not be parsed as its expected type"
	ErrInvalidPO       = "The purchase order structure failed validation"
)

// ============================================================================
// SESSION & COMMIT ERRORS
// ============================================================================

const (
	ErrMissingToken       = "preview_token is required"
	ErrSessionNotFound    = "Preview session not found or expired. Please upload the file again"
	ErrSessionNotReady    = "Preview session is not in a committable state"
	ErrDuplicateUpload    = "This file was already uploaded for the same platform, business unit and period"
	ErrCommitNotPersisted = "Commit failed; no data was saved. The preview session is still usable for a retry"
	ErrAutoPopulateMiss   = "No matching records"
	ErrUnknownUploadType  = "The requested upload type is not supported"
)
