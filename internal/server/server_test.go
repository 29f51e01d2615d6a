package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"SheetSentinel/internal/collector"
	"SheetSentinel/internal/model"
	"SheetSentinel/internal/pipeline"
	"SheetSentinel/internal/report"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixedLatest struct{ r *model.Report }

func (f fixedLatest) Latest() *model.Report { return f.r }

func csvBody(rows int) *bytes.Buffer {
	var b bytes.Buffer
	t := collector.GenerateTable(100, rows)
	b.WriteString(strings.Join(t.Header, ",") + "\n")
	for _, r := range t.Rows {
		b.WriteString(strings.Join(r, ",") + "\n")
	}
	return &b
}

func do(s *Server, method, path string, body *bytes.Buffer) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func newServer(latest LatestSource) *Server {
	return New(pipeline.DefaultOptions(), latest, prometheus.NewRegistry(), zerolog.Nop())
}

func TestHealth(t *testing.T) {
	w := do(newServer(nil), http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAnalyzeJSON(t *testing.T) {
	w := do(newServer(nil), http.MethodPost, "/api/v1/analyze", csvBody(80))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var exp report.Export
	if err := json.Unmarshal(w.Body.Bytes(), &exp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(exp.Prices.Rows) != 80 || len(exp.Indicators.Rows) != 80 {
		t.Errorf("rows = %d/%d, want 80", len(exp.Prices.Rows), len(exp.Indicators.Rows))
	}
	if exp.Signal.Kind == "" {
		t.Error("signal kind missing")
	}
}

func TestAnalyzeCSV(t *testing.T) {
	w := do(newServer(nil), http.MethodPost, "/api/v1/analyze?format=csv", csvBody(60))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 61 {
		t.Errorf("csv lines = %d, want 61", len(lines))
	}
	if !strings.HasPrefix(lines[0], "time,open,high,low,close,volume") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestAnalyzeQueryOverrides(t *testing.T) {
	w := do(newServer(nil), http.MethodPost, "/api/v1/analyze?sma_short=5&sma_long=10&rsi=7&ema=5&bb_period=10&extra_rsi=3,28", csvBody(30))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var exp report.Export
	if err := json.Unmarshal(w.Body.Bytes(), &exp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]bool{"sma_5": true, "sma_10": true, "rsi_7": true, "ema_5": true, "rsi_3": true, "rsi_28": true}
	for _, c := range exp.Indicators.Columns {
		delete(want, c)
	}
	if len(want) != 0 {
		t.Errorf("missing columns %v in %v", want, exp.Indicators.Columns)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		body *bytes.Buffer
		code int
	}{
		{"bad query", "/api/v1/analyze?rsi=abc", csvBody(80), http.StatusBadRequest},
		{"invalid options", "/api/v1/analyze?sma_short=60", csvBody(80), http.StatusBadRequest},
		{"nan width", "/api/v1/analyze?bb_width=NaN", csvBody(80), http.StatusBadRequest},
		{"nan overbought", "/api/v1/analyze?overbought=NaN", csvBody(80), http.StatusBadRequest},
		{"inf oversold", "/api/v1/analyze?oversold=-Inf", csvBody(80), http.StatusBadRequest},
		{"bad extra rsi", "/api/v1/analyze?extra_rsi=7,x", csvBody(80), http.StatusBadRequest},
		{"zero extra rsi", "/api/v1/analyze?extra_rsi=0", csvBody(80), http.StatusBadRequest},
		{"empty body", "/api/v1/analyze", nil, http.StatusBadRequest},
		{"too few rows", "/api/v1/analyze", csvBody(10), http.StatusUnprocessableEntity},
		{"missing close", "/api/v1/analyze", bytes.NewBufferString("date,foo\n2024-01-01,1\n"), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newServer(nil), http.MethodPost, tt.path, tt.body)
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.code, w.Body.String())
			}
		})
	}
}

func TestLatest(t *testing.T) {
	w := do(newServer(fixedLatest{}), http.MethodGet, "/api/v1/report/latest", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status without report = %d, want 404", w.Code)
	}

	r, err := pipeline.Run(collector.GenerateTable(100, 70), pipeline.DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	w = do(newServer(fixedLatest{r}), http.MethodGet, "/api/v1/report/latest", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"kind"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter_total", Help: "x"})
	reg.MustRegister(c)
	c.Inc()

	s := New(pipeline.DefaultOptions(), nil, reg, zerolog.Nop())
	w := do(s, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "test_counter_total 1") {
		t.Errorf("metrics body = %s", w.Body.String())
	}
}
