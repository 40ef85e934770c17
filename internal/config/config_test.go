package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.Width != 40 {
		t.Errorf("Expected width=40, got %d", cfg.UI.Width)
	}
	if cfg.UI.AccentColor != "212" {
		t.Errorf("Expected accent_color=212, got %s", cfg.UI.AccentColor)
	}
	if !cfg.UI.Mouse {
		t.Error("Expected mouse=true")
	}
	if cfg.UI.SubmitOnCommit {
		t.Error("Expected submit_on_commit=false")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected level=info, got %s", cfg.Log.Level)
	}
	if cfg.Log.MaxSizeMB != 5 {
		t.Errorf("Expected max_size_mb=5, got %d", cfg.Log.MaxSizeMB)
	}
	if cfg.Store.Remember {
		t.Error("Expected remember=false by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestConfigGet(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key      string
		expected string
	}{
		{"ui.width", "40"},
		{"ui.accent_color", "212"},
		{"ui.mouse", "true"},
		{"ui.alt_screen", "false"},
		{"ui.submit_on_commit", "false"},
		{"ui.show_help", "true"},
		{"log.level", "info"},
		{"log.file", ""},
		{"log.max_size_mb", "5"},
		{"store.remember", "false"},
		{"store.path", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.expected {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"ui.width", "60"},
		{"ui.accent_color", "#ff8800"},
		{"ui.mouse", "false"},
		{"ui.alt_screen", "true"},
		{"ui.submit_on_commit", "true"},
		{"ui.show_help", "false"},
		{"log.level", "debug"},
		{"log.file", "/tmp/dropdown.log"},
		{"log.max_size_mb", "10"},
		{"store.remember", "true"},
		{"store.path", "/tmp/state.db"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%q, %q) error: %v", tt.key, tt.value, err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.value {
				t.Errorf("after Set, Get(%q) = %q, want %q", tt.key, got, tt.value)
			}
		})
	}
}

func TestConfigSet_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"ui.width", "abc"},
		{"ui.width", "10"},
		{"ui.width", "500"},
		{"ui.accent_color", "pink"},
		{"ui.accent_color", "300"},
		{"ui.accent_color", "#12345"},
		{"ui.mouse", "maybe"},
		{"log.level", "verbose"},
		{"log.max_size_mb", "0"},
		{"store.remember", "sometimes"},
		{"ui.unknown", "x"},
		{"nope.width", "40"},
		{"width", "40"},
		{"ui.width.extra", "40"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := cfg.Set(tt.key, tt.value); err == nil {
				t.Errorf("Set(%q, %q) expected error", tt.key, tt.value)
			}
		})
	}
}

func TestConfigGet_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range []string{"ui", "ui.nope", "nope.width", "log.nope", "store.nope"} {
		if _, err := cfg.Get(key); err == nil {
			t.Errorf("Get(%q) expected error", key)
		}
	}
}

func TestListKeys_AllGettable(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range ListKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("ListKeys() contains %q but Get fails: %v", key, err)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UI.Width = 5
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.UI.Width != MinWidth {
		t.Errorf("Expected width clamped to %d, got %d", MinWidth, cfg.UI.Width)
	}

	cfg.UI.Width = 9999
	_ = cfg.Validate()
	if cfg.UI.Width != MaxWidth {
		t.Errorf("Expected width clamped to %d, got %d", MaxWidth, cfg.UI.Width)
	}

	cfg = DefaultConfig()
	cfg.Log.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid log level")
	}

	cfg = DefaultConfig()
	cfg.UI.AccentColor = "blue"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid accent colour")
	}

	cfg = DefaultConfig()
	cfg.Log.MaxSizeMB = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for max_size_mb=0")
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.UI.Width != 40 {
		t.Errorf("Expected defaults for missing file, got width=%d", cfg.UI.Width)
	}
}

func TestLoadFromFile_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "ui:\n  width: 72\n  submit_on_commit: true\nstore:\n  remember: true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.UI.Width != 72 {
		t.Errorf("Expected width=72, got %d", cfg.UI.Width)
	}
	if !cfg.UI.SubmitOnCommit {
		t.Error("Expected submit_on_commit=true")
	}
	if !cfg.UI.Mouse {
		t.Error("Unset fields should keep defaults")
	}
	if !cfg.Store.Remember {
		t.Error("Expected remember=true")
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("ui: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("Expected parse error, got %v", err)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("log:\n  level: chatty\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(invalid); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.UI.Width = 55
	cfg.Log.Level = "warn"
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if loaded.UI.Width != 55 || loaded.Log.Level != "warn" {
		t.Errorf("Round trip mismatch: %+v", loaded)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DROPDOWN_DEBUG", "1")
	t.Setenv("DROPDOWN_NO_MOUSE", "true")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()
	if cfg.Log.Level != "debug" {
		t.Errorf("DROPDOWN_DEBUG should force debug, got %s", cfg.Log.Level)
	}
	if cfg.UI.Mouse {
		t.Error("DROPDOWN_NO_MOUSE should disable mouse")
	}

	t.Setenv("DROPDOWN_LOG_LEVEL", "error")
	cfg.ApplyEnvOverrides()
	if cfg.Log.Level != "error" {
		t.Errorf("DROPDOWN_LOG_LEVEL should win over DROPDOWN_DEBUG, got %s", cfg.Log.Level)
	}

	t.Setenv("DROPDOWN_LOG_LEVEL", "bogus")
	cfg = DefaultConfig()
	t.Setenv("DROPDOWN_DEBUG", "")
	cfg.ApplyEnvOverrides()
	if cfg.Log.Level != "info" {
		t.Errorf("Invalid DROPDOWN_LOG_LEVEL should be ignored, got %s", cfg.Log.Level)
	}
}

func TestLogFileAndStorePath(t *testing.T) {
	paths := &Paths{ConfigDir: "/c", DataDir: "/d"}
	cfg := DefaultConfig()

	if got := cfg.LogFile(paths); got != filepath.Join("/d", "logs", "dropdown.log") {
		t.Errorf("LogFile() = %s", got)
	}
	if got := cfg.StorePath(paths); got != filepath.Join("/d", "state.db") {
		t.Errorf("StorePath() = %s", got)
	}

	cfg.Log.File = "/x.log"
	cfg.Store.Path = "/x.db"
	if cfg.LogFile(paths) != "/x.log" || cfg.StorePath(paths) != "/x.db" {
		t.Error("Explicit paths should override defaults")
	}
}

func TestAccent(t *testing.T) {
	cfg := DefaultConfig()
	if string(cfg.Accent()) != "212" {
		t.Errorf("Accent() = %s", cfg.Accent())
	}
}

func TestReadFile_IgnoresEnvOverrides(t *testing.T) {
	t.Setenv("DROPDOWN_NO_MOUSE", "1")
	t.Setenv("DROPDOWN_DEBUG", "1")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui:\n  width: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if cfg.UI.Width != 50 || !cfg.UI.Mouse || cfg.Log.Level != "info" {
		t.Errorf("ReadFile() applied overrides: %+v", cfg)
	}

	cfg, err = LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.UI.Mouse || cfg.Log.Level != "debug" {
		t.Errorf("LoadFromFile() should apply overrides: %+v", cfg)
	}
}
