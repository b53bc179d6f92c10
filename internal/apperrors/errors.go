package apperrors

import "errors"

// Workbook errors represent uploads that cannot be read as a workbook at all.
// These are terminal for a loan extraction: no partial loan list is returned.
var (
	// ErrInvalidWorkbook indicates that the uploaded bytes could not be decoded as a workbook.
	ErrInvalidWorkbook = errors.New("invalid workbook")

	// ErrUnsupportedFormat indicates that the upload is neither an .xlsx nor an .xls file.
	ErrUnsupportedFormat = errors.New("unsupported workbook format")

	// ErrDashboardSheetMissing indicates that the loan workbook has no Dashboard sheet.
	ErrDashboardSheetMissing = errors.New("dashboard sheet not found")

	// ErrSheetNotFound indicates that a named sheet does not exist in the workbook.
	ErrSheetNotFound = errors.New("sheet not found")
)

// Extraction errors are recorded per sheet or per row and never abort a whole extraction.
var (
	// ErrNoPrincipal indicates that no profile produced a positive principal for a loan sheet.
	ErrNoPrincipal = errors.New("no positive principal found")

	// ErrErrorCell indicates that a required cell holds a spreadsheet error value such as #N/A.
	ErrErrorCell = errors.New("cell holds an error value")

	// ErrLifeSettlementUnavailable is the reason attached to an unavailable life-settlement result.
	ErrLifeSettlementUnavailable = errors.New("life settlement data unavailable")
)

// Request errors represent invalid input at the HTTP or CLI boundary.
var (
	// ErrMissingUpload indicates that a required multipart file field is absent.
	ErrMissingUpload = errors.New("missing uploaded file")

	// ErrInvalidAsOfDate indicates that the as-of override could not be parsed.
	ErrInvalidAsOfDate = errors.New("invalid as-of date")

	// ErrInvalidStatusReference indicates an unknown status reference name.
	ErrInvalidStatusReference = errors.New("invalid status reference")

	// ErrUploadTooLarge indicates that the multipart body exceeded the configured limit.
	ErrUploadTooLarge = errors.New("upload too large")

	// ErrServerBusy indicates that the extraction limiter could not admit the request.
	ErrServerBusy = errors.New("too many extractions in progress")
)

// Configuration errors.
var (
	// ErrInvalidProfile indicates that a workbook profile references impossible cells or rows.
	ErrInvalidProfile = errors.New("invalid workbook profile")

	// ErrInvalidConfig indicates an unusable configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")
)
