package logging

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/janisto/firebase-boilerplate/internal/platform/timeutil"
)

func observedContext(level zapcore.Level) (context.Context, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	return WithLogger(context.Background(), zap.New(core)), recorded
}

func fieldMap(entry observer.LoggedEntry) map[string]zap.Field {
	fields := make(map[string]zap.Field, len(entry.Context))
	for _, f := range entry.Context {
		fields[f.Key] = f
	}
	return fields
}

type captureArrayEncoder struct {
	zapcore.PrimitiveArrayEncoder
	values []string
}

func (c *captureArrayEncoder) AppendString(s string) { c.values = append(c.values, s) }

func TestEncodeSeverityMapping(t *testing.T) {
	tests := []struct {
		level zapcore.Level
		want  string
	}{
		{zapcore.DebugLevel, "DEBUG"},
		{zapcore.InfoLevel, "INFO"},
		{zapcore.WarnLevel, "WARNING"},
		{zapcore.ErrorLevel, "ERROR"},
		{zapcore.DPanicLevel, "CRITICAL"},
		{zapcore.PanicLevel, "ALERT"},
		{zapcore.FatalLevel, "EMERGENCY"},
		{zapcore.Level(42), "DEFAULT"},
	}
	for _, tt := range tests {
		enc := &captureArrayEncoder{}
		encodeSeverity(tt.level, enc)
		if len(enc.values) != 1 || enc.values[0] != tt.want {
			t.Errorf("encodeSeverity(%v) = %v, want %s", tt.level, enc.values, tt.want)
		}
	}
}

func TestEncodeTimeMicrosUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := time.Date(2024, 6, 20, 15, 4, 5, 123456000, loc)

	enc := &captureArrayEncoder{}
	encodeTimeMicros(ts, enc)

	if len(enc.values) != 1 {
		t.Fatalf("expected one value, got %v", enc.values)
	}
	if enc.values[0] != "2024-06-20T12:04:05.123456Z" {
		t.Fatalf("unexpected timestamp %q", enc.values[0])
	}
	if _, err := time.Parse(timeutil.RFC3339Micros, enc.values[0]); err != nil {
		t.Fatalf("timestamp does not match RFC3339Micros: %v", err)
	}
}

func TestLoggerIsSingleton(t *testing.T) {
	if Logger() != Logger() {
		t.Fatal("expected the same logger instance")
	}
	if err := Err(); err != nil {
		t.Fatalf("unexpected logger init error: %v", err)
	}
}

func TestLoggerFromContextFallsBack(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	if LoggerFromContext(nil) != Logger() {
		t.Fatal("expected process logger for nil context")
	}
	if LoggerFromContext(context.Background()) != Logger() {
		t.Fatal("expected process logger for empty context")
	}
}

func TestComponentLoggerAddsField(t *testing.T) {
	ctx, recorded := observedContext(zapcore.InfoLevel)

	ComponentLogger(ctx, "profiles").Info("hello")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if f := fieldMap(entries[0])["component"]; f.String != "profiles" {
		t.Fatalf("expected component=profiles, got %+v", f)
	}
}

func TestLogErrorAppendsErrorField(t *testing.T) {
	ctx, recorded := observedContext(zapcore.DebugLevel)

	LogError(ctx, "boom", errors.New("kaput"), zap.String("op", "x"))
	LogError(ctx, "no error", nil)

	entries := recorded.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if _, ok := fieldMap(entries[0])["error"]; !ok {
		t.Fatal("expected error field on first entry")
	}
	if _, ok := fieldMap(entries[1])["error"]; ok {
		t.Fatal("expected no error field when err is nil")
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %v", entries[0].Level)
	}
}

func TestLogInfoAndWarnLevels(t *testing.T) {
	ctx, recorded := observedContext(zapcore.DebugLevel)

	LogInfo(ctx, "info")
	LogWarn(ctx, "warn")

	entries := recorded.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("unexpected levels: %v, %v", entries[0].Level, entries[1].Level)
	}
}

func TestLogAuditEvent(t *testing.T) {
	ctx, recorded := observedContext(zapcore.InfoLevel)

	LogAuditEvent(ctx, AuditEvent{
		Action:       "update",
		UserID:       "user-1",
		ResourceType: "profile",
		ResourceID:   "doc-1",
		Result:       AuditFailure,
		Details:      map[string]any{"error": "not_found"},
	})

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "Audit event" {
		t.Fatalf("unexpected message %q", entries[0].Message)
	}
	fields := fieldMap(entries[0])
	want := map[string]string{
		"audit.action":        "update",
		"audit.user_id":       "user-1",
		"audit.resource_type": "profile",
		"audit.resource_id":   "doc-1",
		"audit.result":        "failure",
	}
	for key, val := range want {
		if fields[key].String != val {
			t.Errorf("%s = %q, want %q", key, fields[key].String, val)
		}
	}
	if _, ok := fields["audit.details"]; !ok {
		t.Error("expected audit.details field")
	}
}

func TestLogAuditEventOmitsEmptyDetails(t *testing.T) {
	ctx, recorded := observedContext(zapcore.InfoLevel)

	LogAuditEvent(ctx, AuditEvent{Action: "delete", Result: AuditSuccess})

	if _, ok := fieldMap(recorded.All()[0])["audit.details"]; ok {
		t.Fatal("expected no audit.details field")
	}
}

func TestParseTraceparent(t *testing.T) {
	tc, ok := parseTraceparent("00-ab42124a3c573678d4d8b21ba52df3bf-d21f7bc17caa5aba-01")
	if !ok {
		t.Fatal("expected valid traceparent")
	}
	if tc.traceID != "ab42124a3c573678d4d8b21ba52df3bf" || tc.spanID != "d21f7bc17caa5aba" || !tc.sampled {
		t.Fatalf("unexpected trace context: %+v", tc)
	}

	for _, bad := range []string{"", "garbage", "00-short-d21f7bc17caa5aba-01"} {
		if _, ok := parseTraceparent(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestTraceResource(t *testing.T) {
	header := "00-ab42124a3c573678d4d8b21ba52df3bf-d21f7bc17caa5aba-00"
	if got := traceResource(header, "demo"); got != "projects/demo/traces/ab42124a3c573678d4d8b21ba52df3bf" {
		t.Fatalf("unexpected resource %q", got)
	}
	if got := traceResource(header, ""); got != "" {
		t.Fatalf("expected empty resource without project, got %q", got)
	}
}

func TestLoggerWithTraceAddsFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	header := "00-ab42124a3c573678d4d8b21ba52df3bf-d21f7bc17caa5aba-01"

	loggerWithTrace(zap.New(core), header, "demo", "req-1").Info("traced")

	fields := fieldMap(recorded.All()[0])
	if fields["logging.googleapis.com/spanId"].String != "d21f7bc17caa5aba" {
		t.Fatalf("expected span id field, got %+v", fields)
	}
	if fields["requestId"].String != "req-1" {
		t.Fatalf("expected requestId field, got %+v", fields)
	}
}

func TestRequestLoggerStoresTraceID(t *testing.T) {
	var gotTraceID string
	handler := chimiddleware.RequestID(RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTraceID = TraceIDFromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotTraceID == "" {
		t.Fatal("expected request ID to be used as trace ID")
	}
}

func TestAccessLoggerWritesSummary(t *testing.T) {
	ctx, recorded := observedContext(zapcore.InfoLevel)

	handler := AccessLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodGet, "/tea", nil).WithContext(ctx)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := recorded.All()
	if len(entries) != 1 || entries[0].Message != "request completed" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	fields := fieldMap(entries[0])
	if fields["status"].Integer != http.StatusTeapot {
		t.Fatalf("expected status 418, got %+v", fields["status"])
	}
	if fields["path"].String != "/tea" {
		t.Fatalf("expected path /tea, got %+v", fields["path"])
	}
}
