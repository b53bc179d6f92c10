package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/testutil"
)

const testMaxUploadBytes = 10 << 20

func masterUpload(t *testing.T, field string) testutil.Upload {
	t.Helper()
	return testutil.Upload{Field: field, Filename: "master.xlsx", Data: testutil.SampleMasterWorkbook(t)}
}

func lifeSettlementUpload(t *testing.T, field string) testutil.Upload {
	t.Helper()
	return testutil.Upload{Field: field, Filename: "ls.xlsx", Data: testutil.SampleLifeSettlementWorkbook(t)}
}

// TestLoanHandler_Upload tests POST /api/loans.
//
// WHY: The loan upload is the primary entry point. Request problems must be 400s, and a
// workbook that decodes but lacks its Dashboard must be a 422, never a partial report.
func TestLoanHandler_Upload(t *testing.T) {
	setupHandler := func(t *testing.T) *LoanHandler {
		t.Helper()
		return NewLoanHandler(testutil.NewTestDashboardService(t, testutil.FixedNow), testMaxUploadBytes)
	}

	t.Run("returns the loan portfolio", func(t *testing.T) {
		handler := setupHandler(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/loans",
			[]testutil.Upload{masterUpload(t, "file")}, nil)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.LoanPortfolio
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response.Loans) != 3 {
			t.Errorf("Expected 3 loans, got %d", len(response.Loans))
		}
		if response.AsOfSource != "dashboard" {
			t.Errorf("Expected as-of from the Dashboard, got %q", response.AsOfSource)
		}
		if _, ok := response.Ledgers["#1"]; !ok {
			t.Error("Expected the ledger of #1 keyed by sheet name")
		}
	})

	t.Run("honors the as-of override and status reference", func(t *testing.T) {
		handler := setupHandler(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/loans",
			[]testutil.Upload{masterUpload(t, "file")},
			map[string]string{"as_of": "2025-02-28", "status_reference": "as_of"})
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.LoanPortfolio
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.AsOfSource != "override" {
			t.Errorf("Expected override as-of, got %q", response.AsOfSource)
		}
		if response.StatusReference != model.StatusReferenceAsOf {
			t.Errorf("Expected status reference as_of, got %q", response.StatusReference)
		}
	})

	t.Run("returns 400 when the file is missing", func(t *testing.T) {
		handler := setupHandler(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/loans", nil, map[string]string{"as_of": "2025-06-30"})
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for an invalid as-of date", func(t *testing.T) {
		handler := setupHandler(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/loans",
			[]testutil.Upload{masterUpload(t, "file")}, map[string]string{"as_of": "30/06/2025"})
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for an unsupported file name", func(t *testing.T) {
		handler := setupHandler(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/loans",
			[]testutil.Upload{{Field: "file", Filename: "master.csv", Data: []byte("a,b\n")}}, nil)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 422 for bytes that are not a workbook", func(t *testing.T) {
		handler := setupHandler(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/loans",
			[]testutil.Upload{{Field: "file", Filename: "master.xlsx", Data: []byte("not a workbook")}}, nil)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 422 when the Dashboard sheet is missing", func(t *testing.T) {
		handler := setupHandler(t)
		data := testutil.NewLoanWorkbook().WithoutDashboard().WithSheet(testutil.NewLoanSheet("#1")).Bytes(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/loans",
			[]testutil.Upload{{Field: "file", Filename: "master.xlsx", Data: data}}, nil)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 413 when the body exceeds the limit", func(t *testing.T) {
		handler := NewLoanHandler(testutil.NewTestDashboardService(t, testutil.FixedNow), 1024)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/loans",
			[]testutil.Upload{{Field: "file", Filename: "master.xlsx", Data: bytes.Repeat([]byte("x"), 64<<10)}}, nil)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected 413, got %d: %s", w.Code, w.Body.String())
		}
	})
}

// TestLifeSettlementHandler_Upload tests POST /api/life-settlements.
//
// WHY: An unusable life-settlement workbook is reported in the body, not as an HTTP
// error, so the dashboard can render loans alongside the reason.
func TestLifeSettlementHandler_Upload(t *testing.T) {
	setupHandler := func(t *testing.T) *LifeSettlementHandler {
		t.Helper()
		return NewLifeSettlementHandler(testutil.NewTestDashboardService(t, testutil.FixedNow), testMaxUploadBytes)
	}

	t.Run("returns the policies and premiums", func(t *testing.T) {
		handler := setupHandler(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/life-settlements",
			[]testutil.Upload{lifeSettlementUpload(t, "file")}, nil)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.LifeSettlementPortfolio
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !response.Available {
			t.Fatalf("Expected an available result, got reason %q", response.Reason)
		}
		if len(response.Policies) != 2 || len(response.MonthlyPremiums) != 3 {
			t.Errorf("Expected 2 policies and 3 premium months, got %d and %d",
				len(response.Policies), len(response.MonthlyPremiums))
		}
	})

	t.Run("reports an unavailable workbook with 200", func(t *testing.T) {
		handler := setupHandler(t)
		data := testutil.NewLifeSettlementWorkbook().
			WithPolicy(testutil.PolicyRow{PolicyID: "LS-1", NDB: 100000.0}).
			WithoutPremiumSheet().
			Bytes(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/life-settlements",
			[]testutil.Upload{{Field: "file", Filename: "ls.xlsx", Data: data}}, nil)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.LifeSettlementPortfolio
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.Available || response.Reason == "" {
			t.Errorf("Expected unavailable with a reason, got %+v", response)
		}
	})

	t.Run("returns 400 when the file is missing", func(t *testing.T) {
		handler := setupHandler(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/life-settlements", nil, nil)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

// TestDashboardHandler_Upload tests POST /api/dashboard.
func TestDashboardHandler_Upload(t *testing.T) {
	setupHandler := func(t *testing.T) *DashboardHandler {
		t.Helper()
		return NewDashboardHandler(testutil.NewTestDashboardService(t, testutil.FixedNow), testMaxUploadBytes)
	}

	t.Run("returns loans, life settlements and the reconciliation", func(t *testing.T) {
		handler := setupHandler(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/dashboard",
			[]testutil.Upload{masterUpload(t, "master"), lifeSettlementUpload(t, "life_settlement")}, nil)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Dashboard
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.Loans == nil || response.LifeSettlement == nil || response.Reconciliation == nil {
			t.Fatalf("Expected all three sections, got %+v", response)
		}
		if response.Reconciliation.Summary.Current == nil {
			t.Error("Expected a current reconciliation period")
		}
	})

	t.Run("master only", func(t *testing.T) {
		handler := setupHandler(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/dashboard",
			[]testutil.Upload{masterUpload(t, "master")}, nil)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Dashboard
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.LifeSettlement != nil || response.Reconciliation != nil {
			t.Error("Expected no life-settlement sections")
		}
	})

	t.Run("returns 400 without a master workbook", func(t *testing.T) {
		handler := setupHandler(t)
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/dashboard",
			[]testutil.Upload{lifeSettlementUpload(t, "life_settlement")}, nil)
		w := httptest.NewRecorder()

		handler.Upload(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}
