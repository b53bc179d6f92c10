package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/testutil"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// TestReconcileCmd_Report tests the combined CLI report on the sample workbooks.
//
// WHY: The CLI wires flags, files and the service together; the sections must all
// appear when both workbooks are usable.
func TestReconcileCmd_Report(t *testing.T) {
	master := writeFile(t, "master.xlsx", testutil.SampleMasterWorkbook(t))
	ls := writeFile(t, "ls.xlsx", testutil.SampleLifeSettlementWorkbook(t))

	cmd := &reconcileCmd{flags: reportFlags{asOf: "2025-05-31"}}
	md, err := cmd.report(master, ls)
	if err != nil {
		t.Fatalf("report() returned unexpected error: %v", err)
	}

	for _, want := range []string{"# Loan Portfolio", "# Life Settlement Portfolio", "# Loan Income vs Premiums"} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected section %q in report", want)
		}
	}
}

func TestLoansCmd_Report(t *testing.T) {
	t.Run("rejects an invalid status reference", func(t *testing.T) {
		cmd := &loansCmd{flags: reportFlags{statusRef: "yesterday"}}
		if _, err := cmd.report("unused.xlsx"); err == nil {
			t.Error("Expected an error for an unknown status reference")
		}
	})

	t.Run("reports a missing file", func(t *testing.T) {
		cmd := &loansCmd{}
		if _, err := cmd.report(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
			t.Error("Expected an error for a missing file")
		}
	})

	t.Run("applies the as-of override", func(t *testing.T) {
		master := writeFile(t, "master.xlsx", testutil.SampleMasterWorkbook(t))

		cmd := &loansCmd{flags: reportFlags{asOf: "2025-02-28"}}
		md, err := cmd.report(master)
		if err != nil {
			t.Fatalf("report() returned unexpected error: %v", err)
		}
		if !strings.Contains(md, "As of 2025-02-28 (override)") {
			t.Errorf("Expected the override in the header, got:\n%s", md)
		}
	})
}

func TestPoliciesCmd_Report(t *testing.T) {
	ls := writeFile(t, "ls.xlsx", testutil.SampleLifeSettlementWorkbook(t))

	md, err := (&policiesCmd{}).report(ls)
	if err != nil {
		t.Fatalf("report() returned unexpected error: %v", err)
	}
	if !strings.Contains(md, "| Policies | 2 |") {
		t.Errorf("Expected two policies, got:\n%s", md)
	}
}
