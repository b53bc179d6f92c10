package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
)

// WorkbookExtensions are the upload file extensions the workbook decoder accepts.
var WorkbookExtensions = map[string]bool{
	".xlsx": true, ".xlsm": true, ".xls": true,
}

// AsOfLayout is the accepted as-of override format.
const AsOfLayout = "2006-01-02"

// ParseAsOf parses an optional YYYY-MM-DD as-of override. Empty input returns nil.
func ParseAsOf(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(AsOfLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %q, expected YYYY-MM-DD", apperrors.ErrInvalidAsOfDate, value)
	}
	return &t, nil
}

// ParseStatusReference parses an optional status reference. Empty input returns "" so
// the configured default applies.
func ParseStatusReference(value string) (model.StatusReference, error) {
	ref := model.StatusReference(strings.ToLower(value))
	switch ref {
	case "", model.StatusReferenceNow, model.StatusReferenceAsOf:
		return ref, nil
	}
	return "", fmt.Errorf("%w: %q, expected %q or %q",
		apperrors.ErrInvalidStatusReference, value, model.StatusReferenceNow, model.StatusReferenceAsOf)
}

// validateWorkbookName records an error for file names without a workbook extension.
// Names are optional; the decoder sniffs the content regardless.
func validateWorkbookName(errors map[string]string, field, name string) {
	if name == "" {
		return
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !WorkbookExtensions[ext] {
		errors[field] = fmt.Sprintf("unsupported file type %q, expected .xlsx, .xlsm or .xls", ext)
	}
}
