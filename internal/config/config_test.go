package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.DatabasePath != DefaultDatabasePath {
		t.Fatalf("unexpected default database path: %q", cfg.DatabasePath)
	}
	if cfg.SchemaPath != DefaultSchemaPath {
		t.Fatalf("unexpected default schema path: %q", cfg.SchemaPath)
	}
	if cfg.Echo || cfg.LogFile != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestApplyEnvOverridesDefaults(t *testing.T) {
	t.Setenv(EnvDatabasePath, "/tmp/env.db")
	t.Setenv(EnvSchemaPath, "/tmp/env.yaml")
	t.Setenv(EnvEcho, "true")
	t.Setenv(EnvLogFile, "/tmp/env.log")

	cfg := Default()
	ApplyEnv(&cfg)

	if cfg.DatabasePath != "/tmp/env.db" {
		t.Fatalf("expected env database path, got %q", cfg.DatabasePath)
	}
	if cfg.SchemaPath != "/tmp/env.yaml" {
		t.Fatalf("expected env schema path, got %q", cfg.SchemaPath)
	}
	if !cfg.Echo {
		t.Fatal("expected echo to be enabled from env")
	}
	if cfg.LogFile != "/tmp/env.log" {
		t.Fatalf("expected env log file, got %q", cfg.LogFile)
	}
}

func TestApplyEnvDoesNotOverrideExplicitValues(t *testing.T) {
	t.Setenv(EnvDatabasePath, "/tmp/env.db")
	t.Setenv(EnvSchemaPath, "/tmp/env.yaml")

	cfg := Config{
		DatabasePath: "/explicit/flag.db",
		SchemaPath:   "/explicit/flag.yaml",
	}
	ApplyEnv(&cfg)

	if cfg.DatabasePath != "/explicit/flag.db" {
		t.Fatalf("explicit database path should win over env, got %q", cfg.DatabasePath)
	}
	if cfg.SchemaPath != "/explicit/flag.yaml" {
		t.Fatalf("explicit schema path should win over env, got %q", cfg.SchemaPath)
	}
}

func TestApplyEnvIgnoresInvalidEcho(t *testing.T) {
	t.Setenv(EnvEcho, "definitely")

	cfg := Default()
	ApplyEnv(&cfg)
	if cfg.Echo {
		t.Fatal("invalid echo value should be ignored")
	}
}
