package validation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/validation"
)

// TestValidateLoanUpload tests loan upload validation.
//
// WHY: The as-of override changes every balance in the report. A mistyped date must be
// rejected with a field-level message instead of being ignored.
func TestValidateLoanUpload(t *testing.T) {
	t.Run("accepts a complete request", func(t *testing.T) {
		params, err := validation.ValidateLoanUpload(request.LoanUploadRequest{
			File:            request.UploadedFile{Filename: "Master.XLSX"},
			AsOf:            "2025-06-30",
			StatusReference: "AS_OF",
		})
		if err != nil {
			t.Fatalf("ValidateLoanUpload() returned unexpected error: %v", err)
		}
		if params.AsOf == nil || !params.AsOf.Equal(time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("Expected as-of 2025-06-30, got %v", params.AsOf)
		}
		if params.StatusReference != model.StatusReferenceAsOf {
			t.Errorf("Expected as_of, got %q", params.StatusReference)
		}
	})

	t.Run("optional fields may be empty", func(t *testing.T) {
		params, err := validation.ValidateLoanUpload(request.LoanUploadRequest{File: request.UploadedFile{Filename: "m.xls"}})
		if err != nil {
			t.Fatalf("ValidateLoanUpload() returned unexpected error: %v", err)
		}
		if params.AsOf != nil || params.StatusReference != "" {
			t.Errorf("Expected empty params, got %+v", params)
		}
	})

	t.Run("collects every field error", func(t *testing.T) {
		_, err := validation.ValidateLoanUpload(request.LoanUploadRequest{
			File:            request.UploadedFile{Filename: "remittance.csv"},
			AsOf:            "30/06/2025",
			StatusReference: "later",
		})

		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Fatalf("Expected *validation.Error, got %v", err)
		}
		for _, field := range []string{request.FieldFile, request.FieldAsOf, request.FieldStatusReference} {
			if verr.Fields[field] == "" {
				t.Errorf("Expected an error for %s, got %v", field, verr.Fields)
			}
		}
	})
}

// TestValidateDashboardUpload tests the combined upload.
func TestValidateDashboardUpload(t *testing.T) {
	_, err := validation.ValidateDashboardUpload(request.DashboardUploadRequest{
		Master:         request.UploadedFile{Filename: "Master.xlsx"},
		LifeSettlement: request.UploadedFile{Filename: "ls.pdf"},
	})

	var verr *validation.Error
	if !errors.As(err, &verr) || verr.Fields[request.FieldLifeSettlement] == "" || len(verr.Fields) != 1 {
		t.Errorf("Expected only a life_settlement error, got %v", err)
	}
}

// TestParseAsOf tests as-of parsing.
func TestParseAsOf(t *testing.T) {
	if got, err := validation.ParseAsOf(""); got != nil || err != nil {
		t.Errorf("Expected nil, nil for empty input, got %v, %v", got, err)
	}
	if _, err := validation.ParseAsOf("2025-13-01"); !errors.Is(err, apperrors.ErrInvalidAsOfDate) {
		t.Errorf("Expected ErrInvalidAsOfDate, got %v", err)
	}
}

// TestParseStatusReference tests status reference parsing.
func TestParseStatusReference(t *testing.T) {
	if _, err := validation.ParseStatusReference("wall-clock"); !errors.Is(err, apperrors.ErrInvalidStatusReference) {
		t.Errorf("Expected ErrInvalidStatusReference, got %v", err)
	}
	if ref, err := validation.ParseStatusReference("Now"); err != nil || ref != model.StatusReferenceNow {
		t.Errorf("Expected now, got %q, %v", ref, err)
	}
}

// TestError tests the aggregated message.
func TestError(t *testing.T) {
	err := &validation.Error{Fields: map[string]string{"b": "second", "a": "first"}}
	if got := err.Error(); got != "a: first; b: second" {
		t.Errorf("Expected sorted message, got %q", got)
	}
}
