package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"invoicedesk/internal/gate"
)

func TestObserveGate(t *testing.T) {
	m := New(nil)
	m.ObserveGate("export", gate.StatusReady)
	m.ObserveGate("export", gate.StatusReady)
	m.ObserveGate("send", gate.StatusFailed)

	body := scrape(t, m)
	for _, want := range []string{
		`invoicedesk_gated_actions_total{kind="export",status="ready"} 2`,
		`invoicedesk_gated_actions_total{kind="send",status="failed"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status %d", rec.Code)
	}
	return rec.Body.String()
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(nil)
	m.SetClients(2)
	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`invoicedesk_http_request_duration_seconds_count{method="GET",route="/ping",status="204"} 1`,
		`invoicedesk_directory_clients 2`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveGate("export", gate.StatusReady)
	m.SetClients(1)
}
