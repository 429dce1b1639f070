package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestDataConfig_EmptyBackendDefaultsFiles(t *testing.T) {
	cfg := DataConfig{Path: "./data"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty backend should default to files: %v", err)
	}
	if cfg.Backend != BackendFiles {
		t.Errorf("backend = %q, want %q", cfg.Backend, BackendFiles)
	}
}

func TestDataConfig_FilesRequiresPath(t *testing.T) {
	cfg := DataConfig{Backend: BackendFiles}
	if err := cfg.Validate(); err == nil {
		t.Fatal("files backend with empty path should fail")
	}
}

func TestDataConfig_SQLiteRequiresPath(t *testing.T) {
	cfg := DataConfig{Backend: BackendSQLite}
	if err := cfg.Validate(); err == nil {
		t.Fatal("sqlite backend with empty sqlite_path should fail")
	}
	cfg.SQLitePath = "./lattice.db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sqlite backend with path should pass: %v", err)
	}
}

func TestDataConfig_UnknownBackend(t *testing.T) {
	cfg := DataConfig{Path: "./data", Backend: "etcd"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown backend should fail validation")
	}
}

func TestTitlerConfig_NegativeTimeout(t *testing.T) {
	cfg := TitlerConfig{TimeoutSeconds: -5}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative timeout should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
