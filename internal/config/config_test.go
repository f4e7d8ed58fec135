package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "localnotes.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Board.HistoryLimit != 10 || cfg.Board.BrushSize != 2 || cfg.Board.Color != "#000" {
		t.Fatalf("unexpected board defaults: %+v", cfg.Board)
	}
	if cfg.Share.Port != 8888 || !cfg.Share.Advertise || cfg.Share.Enabled {
		t.Fatalf("unexpected share defaults: %+v", cfg.Share)
	}
	if !cfg.Autosave.Enabled || cfg.Autosave.Keep != 20 {
		t.Fatalf("unexpected autosave defaults: %+v", cfg.Autosave)
	}
	if cfg.Share.DiscoverTimeout != 3*time.Second {
		t.Fatalf("discover timeout = %v", cfg.Share.DiscoverTimeout)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("NOTES_COLOR", "#ff0000")
	t.Setenv("LOCALNOTES_PORT", "9999")
	path := writeConfig(t, `
board:
  history_limit: 25
  color: ${NOTES_COLOR}
share:
  enabled: true
autosave:
  enabled: false
  data_dir: /tmp/notes
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Board.HistoryLimit != 25 {
		t.Fatalf("history limit = %d, want 25", cfg.Board.HistoryLimit)
	}
	if cfg.Board.Color != "#ff0000" {
		t.Fatalf("color = %q, want expanded env value", cfg.Board.Color)
	}
	if !cfg.Share.Enabled || cfg.Share.Port != 9999 {
		t.Fatalf("share = %+v, want enabled on 9999", cfg.Share)
	}
	if cfg.Autosave.Enabled {
		t.Fatalf("expected autosave disabled")
	}
	if got := cfg.AutosavePath(); got != filepath.Join("/tmp/notes", "autosave.db") {
		t.Fatalf("AutosavePath() = %q", got)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadExpandsEnvInValues(t *testing.T) {
	t.Setenv("LOCALNOTES_PORT", "")
	t.Setenv("NOTES_COLOR", "#00ff00")
	t.Setenv("NOTES_BG", "#fafafa")
	t.Setenv("NOTES_PORT", "9100")
	t.Setenv("NOTES_LIMIT", "15")
	path := writeConfig(t, `
# ${NOTES_COLOR} in a comment stays a comment
board:
  color: ${NOTES_COLOR}
  background: "${NOTES_BG}"
  history_limit: ${NOTES_LIMIT}
share:
  port: ${NOTES_PORT}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Board.Color != "#00ff00" {
		t.Fatalf("color = %q, want %q", cfg.Board.Color, "#00ff00")
	}
	if cfg.Board.Background != "#fafafa" {
		t.Fatalf("background = %q, want %q", cfg.Board.Background, "#fafafa")
	}
	if cfg.Board.HistoryLimit != 15 || cfg.Share.Port != 9100 {
		t.Fatalf("history limit %d, port %d; want 15 and 9100", cfg.Board.HistoryLimit, cfg.Share.Port)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "# nothing here\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Board.HistoryLimit != 10 {
		t.Fatalf("history limit = %d, want default 10", cfg.Board.HistoryLimit)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "bad yaml", body: "board: [", want: "failed to parse"},
		{name: "negative history", body: "board:\n  history_limit: -1\n", want: "history_limit"},
		{name: "bad port", body: "share:\n  port: 70000\n", want: "share.port"},
		{name: "bad level", body: "logging:\n  level: loud\n", want: "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv("LOCALNOTES_CONFIG", "")
	if got := ResolvePath(""); got != DefaultPath {
		t.Fatalf("ResolvePath(\"\") = %q", got)
	}
	t.Setenv("LOCALNOTES_CONFIG", "/etc/notes.yaml")
	if got := ResolvePath(""); got != "/etc/notes.yaml" {
		t.Fatalf("ResolvePath from env = %q", got)
	}
	if got := ResolvePath("x.yaml"); got != "x.yaml" {
		t.Fatalf("ResolvePath(flag) = %q", got)
	}
}
