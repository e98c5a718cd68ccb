package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/pipecanvas/pkg/layout"
	"github.com/matzehuels/pipecanvas/pkg/slot"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != slot.BackendFile {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Dir != filepath.Join("/data", "pipecanvas") {
		t.Errorf("dir = %q", cfg.Storage.Dir)
	}
	if cfg.Mode() != layout.ModeSingle {
		t.Errorf("mode = %q", cfg.Mode())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9000"
allowed_origins = ["https://canvas.example.com"]
shutdown_timeout = "3s"

[storage]
backend = "sqlite"
dir = "/var/lib/pipecanvas"

[editor]
mode = "multi"
auto_snap = true

[gitlab]
project = "group/app"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Mode() != layout.ModeMulti || !cfg.Editor.AutoSnap {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	// Unset keys keep their defaults.
	if cfg.Editor.BlockWidth != 160 || cfg.GitLab.URL != "https://gitlab.com" {
		t.Errorf("defaults lost: %+v %+v", cfg.Editor, cfg.GitLab)
	}
	opts := cfg.SlotOptions()
	if opts.Backend != slot.BackendSQLite || opts.Dir != "/var/lib/pipecanvas" {
		t.Errorf("slot options = %+v", opts)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "[gitlab]\nproject = \"from-file\"\n")
	t.Setenv("PIPECANVAS_GITLAB_PROJECT", "from-env")
	t.Setenv("PIPECANVAS_SERVER_ADDR", ":7000")
	t.Setenv("PIPECANVAS_STORAGE_BACKEND", "redis")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GitLab.Project != "from-env" {
		t.Errorf("project = %q", cfg.GitLab.Project)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != "redis" {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[server\naddr = 1", "config:"},
		{"unknown key", "[server]\nport = 80\n", "unknown key"},
		{"bad mode", "[editor]\nmode = \"triple\"\n", "editor.mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestPathUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/cfg", "pipecanvas", "config.toml") {
		t.Errorf("path = %q", p)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Default().Encode()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(writeConfig(t, string(data)))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestRequireGitLab(t *testing.T) {
	cfg := Default()
	if cfg.RequireGitLab() == nil {
		t.Error("expected error without project")
	}
	cfg.GitLab.Project = "1"
	if err := cfg.RequireGitLab(); err != nil {
		t.Error(err)
	}
}

func TestCatalogExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinds.toml")
	body := `
[[kind]]
type = "security"
label = "Security Scan"
children = [{ type = "sast", label = "SAST" }]

[[kind]]
palette = "syac"
type = "bundle"
container_only = true
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	cfg.Editor.Catalog = path

	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	k, ok := cat.Lookup("security")
	if !ok || k.Label != "Security Scan" || len(k.Children) != 1 {
		t.Errorf("security = %+v, %v", k, ok)
	}
	if !cat.IsContainerOnly("bundle") {
		t.Error("bundle should be container-only")
	}
	if _, ok := cat.Lookup("build"); !ok {
		t.Error("default kinds lost")
	}
}
