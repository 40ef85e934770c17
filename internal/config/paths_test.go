package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	paths := DefaultPaths()

	if paths.ConfigDir == "" {
		t.Error("ConfigDir is empty")
	}
	if paths.DataDir == "" {
		t.Error("DataDir is empty")
	}
	if !filepath.IsAbs(paths.ConfigDir) {
		t.Errorf("ConfigDir should be absolute: %s", paths.ConfigDir)
	}
	if !filepath.IsAbs(paths.DataDir) {
		t.Errorf("DataDir should be absolute: %s", paths.DataDir)
	}
}

func TestDefaultPaths_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG test not applicable on Windows")
	}

	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_DATA_HOME", "/custom/data")

	paths := DefaultPaths()

	if !strings.HasPrefix(paths.ConfigDir, "/custom/config") {
		t.Errorf("ConfigDir should respect XDG_CONFIG_HOME: %s", paths.ConfigDir)
	}
	if !strings.HasPrefix(paths.DataDir, "/custom/data") {
		t.Errorf("DataDir should respect XDG_DATA_HOME: %s", paths.DataDir)
	}
	if filepath.Base(paths.ConfigDir) != "dropdown" {
		t.Errorf("ConfigDir should end in dropdown: %s", paths.ConfigDir)
	}
}

func TestPathHelpers(t *testing.T) {
	paths := &Paths{ConfigDir: "/cfg", DataDir: "/data"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ConfigFile", paths.ConfigFile(), filepath.Join("/cfg", "config.yaml")},
		{"DatabaseFile", paths.DatabaseFile(), filepath.Join("/data", "state.db")},
		{"LogDir", paths.LogDir(), filepath.Join("/data", "logs")},
		{"LogFile", paths.LogFile(), filepath.Join("/data", "logs", "dropdown.log")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s() = %s, want %s", tt.name, tt.got, tt.want)
		}
	}
}

func TestEnsureDirectories(t *testing.T) {
	tmp := t.TempDir()
	paths := &Paths{
		ConfigDir: filepath.Join(tmp, "config"),
		DataDir:   filepath.Join(tmp, "data"),
	}

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error: %v", err)
	}

	for _, dir := range []string{paths.ConfigDir, paths.DataDir, paths.LogDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("Directory not created: %s", dir)
			continue
		}
		if !info.IsDir() {
			t.Errorf("Not a directory: %s", dir)
		}
	}
}
