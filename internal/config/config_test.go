package config

import (
	"testing"
	"time"
)

func clearVaultEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"VAULT_UPSTREAM_BASE_URL", "VAULT_UPSTREAM_CREDENTIAL", "VAULT_ROOT_PATH",
		"VAULT_TOOL_PREFIX", "VAULT_HTTP_ADDR", "VAULT_LOG_LEVEL",
		"VAULT_TTL_STRUCTURE_SECONDS", "VAULT_TTL_NOTES_SECONDS",
		"VAULT_BATCH_SIZE", "VAULT_SEARCH_SNIPPET_RADIUS",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestNewDefaultConfigMatchesFixedDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.ToolPrefix != "obs_" {
		t.Errorf("ToolPrefix = %q", cfg.ToolPrefix)
	}
	if cfg.TTLStructure != 300*time.Second {
		t.Errorf("TTLStructure = %v", cfg.TTLStructure)
	}
	if cfg.TTLNotes != 180*time.Second {
		t.Errorf("TTLNotes = %v", cfg.TTLNotes)
	}
	if cfg.BatchSize != 15 {
		t.Errorf("BatchSize = %d", cfg.BatchSize)
	}
	if cfg.SearchSnippetRadius != 80 {
		t.Errorf("SearchSnippetRadius = %d", cfg.SearchSnippetRadius)
	}
}

func TestFromEnvFailsValidationWithoutRequiredFields(t *testing.T) {
	clearVaultEnv(t)
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected an error when required fields are unset")
	}
}

func TestFromEnvOverridesDefaults(t *testing.T) {
	clearVaultEnv(t)
	t.Setenv("VAULT_UPSTREAM_BASE_URL", "http://localhost:27124")
	t.Setenv("VAULT_UPSTREAM_CREDENTIAL", "secret")
	t.Setenv("VAULT_BATCH_SIZE", "25")
	t.Setenv("VAULT_TTL_NOTES_SECONDS", "60")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv returned error: %v", err)
	}
	if cfg.BatchSize != 25 {
		t.Errorf("BatchSize = %d, want 25", cfg.BatchSize)
	}
	if cfg.TTLNotes != 60*time.Second {
		t.Errorf("TTLNotes = %v, want 60s", cfg.TTLNotes)
	}
	if cfg.ToolPrefix != "obs_" {
		t.Errorf("ToolPrefix = %q, want unchanged default", cfg.ToolPrefix)
	}
}

func TestFromEnvRejectsUnparsableBatchSize(t *testing.T) {
	clearVaultEnv(t)
	t.Setenv("VAULT_UPSTREAM_BASE_URL", "http://localhost:27124")
	t.Setenv("VAULT_UPSTREAM_CREDENTIAL", "secret")
	t.Setenv("VAULT_BATCH_SIZE", "not-a-number")

	if _, err := FromEnv(); err == nil {
		t.Fatal("expected an error for a non-numeric batch size")
	}
}

func TestValidateRejectsZeroBatchSize(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.UpstreamBaseURL = "http://localhost:27124"
	cfg.UpstreamCredential = "secret"
	cfg.BatchSize = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for BatchSize = 0")
	}
}

func TestValidateRejectsNegativeTTL(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.UpstreamBaseURL = "http://localhost:27124"
	cfg.UpstreamCredential = "secret"
	cfg.TTLStructure = -1 * time.Second

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a negative TTL")
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.UpstreamBaseURL = "http://localhost:27124"
	cfg.UpstreamCredential = "secret"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error for a well-formed config: %v", err)
	}
}
