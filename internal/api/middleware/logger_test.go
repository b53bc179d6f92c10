package middleware_test

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/api/middleware"
)

// TestLogger tests the access log line.
//
// WHY: Paths come from clients. A path with a newline must not be able to forge a
// second log line.
func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	handler := chimiddleware.RequestID(middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
	req.URL.Path = "/api/system/health\nFAKE 200"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	if strings.Count(line, "\n") != 1 {
		t.Errorf("Expected a single log line, got %q", line)
	}
	for _, want := range []string{"[http]", "GET", "/api/system/healthFAKE 200", "418", "15B"} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected log line to contain %q, got %q", want, line)
		}
	}
}
