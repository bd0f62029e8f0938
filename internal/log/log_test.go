package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newBuffered(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(Config{Component: component, Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})}), &buf
}

func TestLogger_ComponentAttachedOnce(t *testing.T) {
	l, buf := newBuffered(ComponentHTTP)
	l.Info("hello")

	if got := strings.Count(buf.String(), "component=http"); got != 1 {
		t.Errorf("component appears %d times: %s", got, buf.String())
	}
	if l.Component() != ComponentHTTP {
		t.Errorf("Component() = %q", l.Component())
	}

	buf.Reset()
	l.WithComponent(ComponentWorker).Info("switched")
	if !strings.Contains(buf.String(), "component=worker") {
		t.Errorf("missing new component: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()).Logger == nil {
		t.Fatal("fallback logger must not be nil")
	}

	l, buf := newBuffered("ctx")
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("from handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(buf.String(), "from handler") {
		t.Errorf("handler did not use the injected logger: %s", buf.String())
	}
}

func TestStructuredLogger_ResponseLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "level=INFO"},
		{404, "level=WARN"},
		{503, "level=ERROR"},
	}
	for _, tt := range tests {
		l, buf := newBuffered(ComponentHTTP)
		NewStructuredLogger(l).LogHTTPResponse(context.Background(), "GET", "/x", tt.status, 5*time.Millisecond, "1.2.3.4", "req_1")
		out := buf.String()
		if !strings.Contains(out, tt.level) {
			t.Errorf("status %d: want %s in %s", tt.status, tt.level, out)
		}
		if !strings.Contains(out, "request_id=req_1") {
			t.Errorf("status %d: missing request id in %s", tt.status, out)
		}
	}
}

func TestStructuredLogger_DomainEvents(t *testing.T) {
	l, buf := newBuffered(ComponentTransaction)
	sl := NewStructuredLogger(l)

	sl.LogTransactionCreated(context.Background(), "tx-1", "income", "Vendas", 150000, "mem:1")
	sl.LogError(context.Background(), "export failed", errors.New("quota"), OpExport, nil)

	out := buf.String()
	for _, want := range []string{"transaction_id=tx-1", "amount_cents=150000", "sheets_ref=mem:1", "error=quota", "operation=export"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}
}
