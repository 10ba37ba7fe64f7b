package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 70000}, Index: IndexConfig{Driver: DriverFile, Path: "x.json"}}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_Drivers(t *testing.T) {
	tests := []struct {
		name    string
		index   IndexConfig
		db      DatabaseConfig
		wantErr string
	}{
		{"file ok", IndexConfig{Driver: DriverFile, Path: "/tmp/i.json"}, DatabaseConfig{}, ""},
		{"file without path", IndexConfig{Driver: DriverFile}, DatabaseConfig{}, "index.path"},
		{"redis ok", IndexConfig{Driver: DriverRedis}, DatabaseConfig{Addrs: []string{"localhost:6379"}}, ""},
		{"redis without addrs", IndexConfig{Driver: DriverRedis}, DatabaseConfig{}, "database.addrs"},
		{"unknown driver", IndexConfig{Driver: "s3"}, DatabaseConfig{}, "index.driver"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{HTTP: HTTPConfig{Port: 8080}, Index: tc.index, Database: tc.db}
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected Port=8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("unexpected http timeouts: %+v", cfg.HTTP)
	}
	if cfg.Index.Driver != DriverFile {
		t.Errorf("expected Driver=file, got %q", cfg.Index.Driver)
	}
	if cfg.Index.Path != DefaultIndexPath() {
		t.Errorf("expected default index path, got %q", cfg.Index.Path)
	}
	if !strings.HasSuffix(cfg.Index.Path, filepath.Join("postguard", "content-index.json")) {
		t.Errorf("unexpected default path %q", cfg.Index.Path)
	}
	if cfg.Index.RedisKey != "postguard:index" {
		t.Errorf("expected RedisKey=postguard:index, got %q", cfg.Index.RedisKey)
	}
	if cfg.Events.Topic != "post.accepted" {
		t.Errorf("expected Topic=post.accepted, got %q", cfg.Events.Topic)
	}
	if cfg.Events.Enabled() {
		t.Error("events should be disabled without brokers")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{Port: 9000, ReadTimeoutSec: 30},
		Index:  IndexConfig{Driver: DriverRedis, RedisKey: "blog:index"},
		Events: EventsConfig{Topic: "custom"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 9000 || cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("http overridden: %+v", cfg.HTTP)
	}
	if cfg.Index.Driver != DriverRedis || cfg.Index.RedisKey != "blog:index" {
		t.Errorf("index overridden: %+v", cfg.Index)
	}
	if cfg.Events.Topic != "custom" {
		t.Errorf("topic overridden: %q", cfg.Events.Topic)
	}
}

func TestLoadFile_ExpandsEnvVars(t *testing.T) {
	t.Setenv("POSTGUARD_TEST_INDEX", "/srv/blog/index.json")
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := `
http:
  port: ${POSTGUARD_TEST_PORT:-9090}
index:
  driver: file
  path: ${POSTGUARD_TEST_INDEX}
events:
  brokers: ["kafka:9092"]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected default port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Index.Path != "/srv/blog/index.json" {
		t.Errorf("expected expanded path, got %q", cfg.Index.Path)
	}
	if !cfg.Events.Enabled() {
		t.Error("expected events enabled")
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("index:\n  driver: redis\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}
