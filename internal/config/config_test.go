package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prompt != "db" || cfg.Server.HTTPAddr != ":8080" || cfg.Server.GRPCAddr != ":9090" {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinyrel.yaml")
	doc := "store_path: /tmp/docs.db\nprompt: mydb\nserver:\n  http_addr: \":7000\"\n  vacuum_schedule: \"@daily\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorePath != "/tmp/docs.db" || cfg.Prompt != "mydb" {
		t.Fatalf("overrides = %+v", cfg)
	}
	if cfg.Server.HTTPAddr != ":7000" || cfg.Server.GRPCAddr != ":9090" {
		t.Fatalf("partial server overrides = %+v", cfg.Server)
	}
	if cfg.Server.VacuumSchedule != "@daily" {
		t.Fatalf("vacuum schedule = %q", cfg.Server.VacuumSchedule)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("prompt: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
