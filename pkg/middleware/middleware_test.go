package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/ecoscore/pkg/middleware"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestApplyOrder(t *testing.T) {
	var order []string
	mw := middleware.New()

	for _, name := range []string{"first", "second"} {
		mw.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("order: got %v, want [first second handler]", order)
	}
}

func TestCORSDisabled(t *testing.T) {
	cfg := &middleware.CORSConfig{Enabled: false, Origins: []string{"http://example.com"}}
	handler := middleware.CORS(cfg)(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://example.com")
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS headers should not be set when disabled")
	}
}

func TestCORSOrigins(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"allowed", []string{"http://school.example"}, "http://school.example", "http://school.example"},
		{"disallowed", []string{"http://school.example"}, "http://other.example", ""},
		{"wildcard", []string{"*"}, "http://any.example", "http://any.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &middleware.CORSConfig{
				Enabled:        true,
				Origins:        tt.origins,
				AllowedMethods: []string{"GET", "POST"},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         3600,
			}
			handler := middleware.CORS(cfg)(http.HandlerFunc(okHandler))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Origin", tt.origin)
			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("allow-origin: got %q, want %q", got, tt.want)
			}
			if rec.Header().Get("Vary") != "Origin" {
				t.Errorf("vary: got %q, want Origin", rec.Header().Get("Vary"))
			}
			if tt.want != "" {
				if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST" {
					t.Errorf("allow-methods: got %s", got)
				}
				if got := rec.Header().Get("Access-Control-Max-Age"); got != "3600" {
					t.Errorf("max-age: got %s, want 3600", got)
				}
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://example.com"},
		AllowedMethods: []string{"GET", "POST"},
	}

	var handlerCalled bool
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/winners", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status: got %d, want 204", rec.Code)
	}
	if handlerCalled {
		t.Error("handler should not be called for preflight")
	}
}

func TestCORSConfigEnv(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", " http://a.example , ,http://b.example")
	t.Setenv("TEST_CORS_MAX_AGE", "60")

	cfg := &middleware.CORSConfig{}
	err := cfg.Finalize(&middleware.CORSEnv{
		Enabled: "TEST_CORS_ENABLED",
		Origins: "TEST_CORS_ORIGINS",
		MaxAge:  "TEST_CORS_MAX_AGE",
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if !cfg.Enabled {
		t.Error("enabled: got false, want true")
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "http://b.example" {
		t.Errorf("origins: got %v", cfg.Origins)
	}
	if cfg.MaxAge != 60 {
		t.Errorf("max age: got %d, want 60", cfg.MaxAge)
	}
	if len(cfg.AllowedMethods) != 4 {
		t.Errorf("allowed methods default: got %v", cfg.AllowedMethods)
	}
}

func TestCORSConfigMerge(t *testing.T) {
	base := &middleware.CORSConfig{Enabled: true, Origins: []string{"http://a.example"}, MaxAge: 100}
	base.Merge(&middleware.CORSConfig{MaxAge: 200})

	if !base.Enabled {
		t.Error("overlay without enabled must not disable CORS")
	}
	if base.MaxAge != 200 {
		t.Errorf("max age: got %d, want 200", base.MaxAge)
	}
	if len(base.Origins) != 1 {
		t.Errorf("origins: got %v", base.Origins)
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/evaluations?x=1", nil))

	out := buf.String()
	for _, want := range []string{"method=POST", "uri=\"/evaluations?x=1\"", "status=201"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestObserve(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /winners/{id}", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "{}")
	})

	var (
		pattern string
		status  int
		elapsed time.Duration = -1
	)
	handler := middleware.Observe(func(r *http.Request, s int, d time.Duration) {
		pattern, status, elapsed = r.Pattern, s, d
	})(mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/winners/42", nil))

	if pattern != "GET /winners/{id}" {
		t.Errorf("pattern: got %q", pattern)
	}
	if status != http.StatusOK {
		t.Errorf("status: got %d, want 200 for implicit write", status)
	}
	if elapsed < 0 {
		t.Error("observer not called")
	}
}
