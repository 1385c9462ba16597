package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/symptomcheck/symptomcheck/internal/config"
	"github.com/symptomcheck/symptomcheck/internal/domain/intake"
	"github.com/symptomcheck/symptomcheck/internal/platform/db"
	"github.com/symptomcheck/symptomcheck/internal/platform/jsoncodec"
)

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		logger := newLogger(&config.Config{Env: "production", LogLevel: tt.level}, &bytes.Buffer{})
		if got := logger.GetLevel(); got != tt.want {
			t.Errorf("LogLevel %q: got %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewLogger_JSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Config{Env: "production", LogLevel: "info"}, &buf)
	logger.Info().Msg("hello")

	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"time"`) {
		t.Errorf("expected timestamp field, got %q", buf.String())
	}
}

func TestNewLogger_ConsoleInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Config{Env: "development", LogLevel: "info"}, &buf)
	logger.Info().Msg("hello")

	if strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected console output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected message in output, got %q", buf.String())
	}
}

func TestPrintSymptoms(t *testing.T) {
	var buf bytes.Buffer
	printSymptoms(&buf, []intake.Symptom{{ID: 2, Name: "Cough"}, {ID: 10, Name: "Fever"}})

	want := "ID     NAME\n2      Cough\n10     Fever\n"
	if buf.String() != want {
		t.Errorf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrintSymptoms_Empty(t *testing.T) {
	var buf bytes.Buffer
	printSymptoms(&buf, nil)
	if buf.String() != "No symptoms in catalog.\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPrintMigrationStatus(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	printMigrationStatus(&buf, []db.MigrationStatus{
		{Version: 1, Name: "core", Applied: true, AppliedAt: &at},
		{Version: 2, Name: "indexes"},
	})

	out := buf.String()
	if !strings.Contains(out, "applied") || !strings.Contains(out, "2024-03-01 09:30:00") {
		t.Errorf("expected applied row with timestamp:\n%s", out)
	}
	if !strings.Contains(out, "pending") {
		t.Errorf("expected pending row:\n%s", out)
	}
}

func TestIntakeFlags_Submission(t *testing.T) {
	f := intakeFlags{name: "Asha", age: 34, gender: "female", symptoms: []string{"Fever"}, symptomIDs: []int64{3}}
	sub := f.submission()
	if sub.Name != "Asha" || sub.Age != 34 || sub.Gender != "female" {
		t.Errorf("unexpected submission: %+v", sub)
	}
	if len(sub.Symptoms) != 1 || len(sub.SymptomIDs) != 1 || sub.SymptomIDs[0] != 3 {
		t.Errorf("unexpected symptoms: %+v", sub)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "migrate", "symptoms", "intake", "diagnose"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("expected subcommand %q", name)
		}
	}
	for _, name := range []string{"up", "status"} {
		if cmd, _, err := root.Find([]string{"migrate", name}); err != nil || cmd.Name() != name {
			t.Errorf("expected migrate subcommand %q", name)
		}
	}
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestIntakeCmd_RequiresNameAndSymptoms(t *testing.T) {
	if _, err := runCmd(t, "intake", "--age", "30", "--gender", "Male", "--symptom", "Fever"); err == nil || !strings.Contains(err.Error(), "--name") {
		t.Errorf("expected --name error, got %v", err)
	}
	if _, err := runCmd(t, "intake", "--name", "Ravi", "--age", "30", "--gender", "Male"); err == nil || !strings.Contains(err.Error(), "symptom") {
		t.Errorf("expected symptom error, got %v", err)
	}
}

func TestDiagnoseCmd_RejectsInvalidUserID(t *testing.T) {
	if _, err := runCmd(t, "diagnose", "--user-id", "0"); err == nil || !strings.Contains(err.Error(), "--user-id") {
		t.Errorf("expected --user-id error, got %v", err)
	}
	if _, err := runCmd(t, "diagnose"); err == nil {
		t.Error("expected error when --user-id is missing")
	}
}

// unreachablePool points at a closed port; pgxpool does not dial until a
// connection is needed.
func unreachablePool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool, err := pgxpool.New(context.Background(), "postgres://app@127.0.0.1:1/app?connect_timeout=1&sslmode=disable")
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Env:            "production",
		LogLevel:       "error",
		DBSchema:       "public",
		CORSOrigins:    []string{"http://localhost:3000"},
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		BodyLimit:      "64K",
	}
}

func TestNewServer_Routes(t *testing.T) {
	e, err := newServer(testConfig(), unreachablePool(t), zerolog.Nop())
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}

	if _, ok := e.JSONSerializer.(jsoncodec.Serializer); !ok {
		t.Errorf("expected goccy JSON serializer, got %T", e.JSONSerializer)
	}

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusFound},
		{http.MethodGet, "/health", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/symptoms", http.StatusServiceUnavailable},
		{http.MethodGet, "/intake", http.StatusServiceUnavailable},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s: got %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s %s: expected X-Request-ID header", tt.method, tt.path)
		}
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("%s %s: expected security headers", tt.method, tt.path)
		}
	}
}

func TestNewServer_IntakePostRequiresCSRF(t *testing.T) {
	e, err := newServer(testConfig(), unreachablePool(t), zerolog.Nop())
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/intake", strings.NewReader("name=Ravi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusForbidden {
		t.Errorf("expected CSRF rejection, got %d", rec.Code)
	}
}

func TestCSRFConfig_SecureCookie(t *testing.T) {
	tests := []struct {
		env  string
		tls  bool
		want bool
	}{
		{"development", false, false},
		{"development", true, true},
		{"production", false, true},
		{"staging", false, false},
	}
	for _, tt := range tests {
		cfg := testConfig()
		cfg.Env, cfg.TLSEnabled = tt.env, tt.tls
		got := csrfConfig(cfg)
		if got.CookieSecure != tt.want {
			t.Errorf("env=%s tls=%v: CookieSecure = %v, want %v", tt.env, tt.tls, got.CookieSecure, tt.want)
		}
		if got.TokenLookup != "form:_csrf" || got.CookieSameSite != http.SameSiteStrictMode {
			t.Errorf("env=%s: unexpected CSRF config %+v", tt.env, got)
		}
	}
}
