package request

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/apperrors"
)

// Multipart field names accepted by the upload endpoints.
const (
	FieldFile            = "file"
	FieldMaster          = "master"
	FieldLifeSettlement  = "life_settlement"
	FieldAsOf            = "as_of"
	FieldStatusReference = "status_reference"
)

// UploadedFile is one workbook read from a multipart form.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// Present reports whether the file was supplied.
func (f UploadedFile) Present() bool {
	return f.Filename != "" || len(f.Data) > 0
}

// LoanUploadRequest is the parsed body of POST /api/loans.
type LoanUploadRequest struct {
	File            UploadedFile
	AsOf            string
	StatusReference string
}

// LifeSettlementUploadRequest is the parsed body of POST /api/life-settlements.
type LifeSettlementUploadRequest struct {
	File UploadedFile
}

// DashboardUploadRequest is the parsed body of POST /api/dashboard.
type DashboardUploadRequest struct {
	Master          UploadedFile
	LifeSettlement  UploadedFile
	AsOf            string
	StatusReference string
}

// ParseLoanUpload reads the loan upload form. The file field is required.
func ParseLoanUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (LoanUploadRequest, error) {
	if err := parseForm(w, r, maxBytes); err != nil {
		return LoanUploadRequest{}, err
	}
	file, err := readFile(r, FieldFile, true)
	if err != nil {
		return LoanUploadRequest{}, err
	}
	return LoanUploadRequest{
		File:            file,
		AsOf:            strings.TrimSpace(r.FormValue(FieldAsOf)),
		StatusReference: strings.TrimSpace(r.FormValue(FieldStatusReference)),
	}, nil
}

// ParseLifeSettlementUpload reads the life-settlement upload form. The file field is required.
func ParseLifeSettlementUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (LifeSettlementUploadRequest, error) {
	if err := parseForm(w, r, maxBytes); err != nil {
		return LifeSettlementUploadRequest{}, err
	}
	file, err := readFile(r, FieldFile, true)
	if err != nil {
		return LifeSettlementUploadRequest{}, err
	}
	return LifeSettlementUploadRequest{File: file}, nil
}

// ParseDashboardUpload reads the combined upload form. Only the master file is required.
func ParseDashboardUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (DashboardUploadRequest, error) {
	if err := parseForm(w, r, maxBytes); err != nil {
		return DashboardUploadRequest{}, err
	}
	master, err := readFile(r, FieldMaster, true)
	if err != nil {
		return DashboardUploadRequest{}, err
	}
	ls, err := readFile(r, FieldLifeSettlement, false)
	if err != nil {
		return DashboardUploadRequest{}, err
	}
	return DashboardUploadRequest{
		Master:          master,
		LifeSettlement:  ls,
		AsOf:            strings.TrimSpace(r.FormValue(FieldAsOf)),
		StatusReference: strings.TrimSpace(r.FormValue(FieldStatusReference)),
	}, nil
}

func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", apperrors.ErrUploadTooLarge, maxBytes)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrMissingUpload, err)
	}
	return nil
}

func readFile(r *http.Request, field string, required bool) (UploadedFile, error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		if required {
			return UploadedFile{}, fmt.Errorf("%w: field %q", apperrors.ErrMissingUpload, field)
		}
		return UploadedFile{}, nil
	}
	if err != nil {
		return UploadedFile{}, fmt.Errorf("%w: field %q: %v", apperrors.ErrMissingUpload, field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("%w: field %q: %v", apperrors.ErrMissingUpload, field, err)
	}
	return UploadedFile{Filename: header.Filename, Data: data}, nil
}
