package commands

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MehtiSini/HappyTools-sub000/internal/testutil/httpbuf"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "jalali", args: []string{"jalali", "2021-03-21"}, want: "1400/01/01"},
		{name: "jalali month name", args: []string{"jalali", "2024-01-01"}, want: "دی"},
		{name: "jalali bad date", args: []string{"jalali", "21/03/2021"}, wantErr: true},
		{name: "jalali reverse", args: []string{"jalali", "--reverse", "1402/10/11"}, want: "2024-01-01"},
		{name: "jalali reverse persian digits", args: []string{"jalali", "-r", "۱۳۵۷/۱۱/۲۲"}, want: "1979-02-11"},
		{name: "jalali reverse missing", args: []string{"jalali", "--reverse"}, wantErr: true},
		{name: "shetab", args: []string{"shetab", "6037-9912-3456-7893"}, want: "valid"},
		{name: "shetab invalid", args: []string{"shetab", "6037991234567890"}, wantErr: true},
		{name: "national code", args: []string{"nationalcode", "0499370899"}, want: "valid"},
		{name: "national code invalid", args: []string{"nationalcode", "1111111111"}, wantErr: true},
		{name: "sha256", args: []string{"hash", "sha256", "abc"}, want: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{name: "keccak", args: []string{"hash", "keccak256", ""}, want: "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
		{name: "bcrypt", args: []string{"hash", "bcrypt", "secret"}, want: "$2a$"},
		{name: "unknown algo", args: []string{"hash", "crc", "x"}, wantErr: true},
		{name: "version", args: []string{"version"}, want: "happytools dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got output %q", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Fatalf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestGetCommand(t *testing.T) {
	srv, rec := httpbuf.StartRecordingServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/missing" {
			http.Error(w, `{"Message":"No resource found."}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"name":"Neda"}`))
	}))
	t.Setenv("HAPPYTOOLS_BASE_URL", srv.URL+"/api")
	t.Setenv("HAPPYTOOLS_USER_ID", "7")

	out, err := run(t, "get", "users/1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(out, `"name": "Neda"`) {
		t.Fatalf("expected indented JSON, got %q", out)
	}
	if last := rec.Last(); last.Path != "/api/users/1" || last.Header.Get("UserId") != "7" {
		t.Fatalf("unexpected request %+v", last)
	}

	if _, err := run(t, "get", "missing"); err == nil || !strings.Contains(err.Error(), "No resource found.") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestGetCommand_RequiresBaseURL(t *testing.T) {
	t.Setenv("HAPPYTOOLS_BASE_URL", "")
	if _, err := run(t, "get", "x"); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestHeartbeatCommand(t *testing.T) {
	srv := httpbuf.StartServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/heartbeat" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Setenv("HAPPYTOOLS_BASE_URL", srv.URL)

	out, err := run(t, "heartbeat")
	if err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	if !strings.Contains(out, `"status": "ok"`) {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := run(t, "heartbeat", "missing"); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
}

func TestGetCommand_DebugFromConfigFile(t *testing.T) {
	var debugEnabled atomic.Bool
	srv := httpbuf.StartServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		debugEnabled.Store(zap.L().Core().Enabled(zapcore.DebugLevel))
		_, _ = w.Write([]byte(`{}`))
	}))
	path := filepath.Join(t.TempDir(), "happytools.yaml")
	if err := os.WriteFile(path, []byte("base_url: "+srv.URL+"\ndebug: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HAPPYTOOLS_BASE_URL", "")

	if _, err := run(t, "--config", path, "get", "x"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !debugEnabled.Load() {
		t.Fatal("debug: true in the config file must enable debug logging")
	}
	if zap.L().Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("the previous logger must be restored after the command")
	}
}
