// Package config assembles and validates the abstract inputs the core
// needs to run: where the upstream note plugin lives, how to authenticate
// to it, and the tunable knobs for caching and fan-out.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds every environment-derived setting the core consumes.
// Process supervision and CLI flag parsing are out of scope; this struct
// is populated by FromEnv or built directly by callers embedding the core.
type Config struct {
	UpstreamBaseURL     string
	UpstreamCredential  string
	VaultRootPath       string
	ToolPrefix          string
	TTLStructure        time.Duration
	TTLNotes            time.Duration
	BatchSize           int
	SearchSnippetRadius int
	HTTPAddr            string
	LogLevel            string
}

// NewDefaultConfig returns a Config with every tunable set to the
// compile-time defaults spec.md fixes for TTLs, batch size, and snippet
// radius, plus a conventional local listen address.
func NewDefaultConfig() *Config {
	return &Config{
		ToolPrefix:          "obs_",
		TTLStructure:        300 * time.Second,
		TTLNotes:            180 * time.Second,
		BatchSize:           15,
		SearchSnippetRadius: 80,
		HTTPAddr:            ":8090",
		LogLevel:            "info",
	}
}

// FromEnv builds a Config from environment variables, starting from
// NewDefaultConfig and overriding whatever is set.
func FromEnv() (*Config, error) {
	cfg := NewDefaultConfig()

	cfg.UpstreamBaseURL = envOr("VAULT_UPSTREAM_BASE_URL", "")
	cfg.UpstreamCredential = envOr("VAULT_UPSTREAM_CREDENTIAL", "")
	cfg.VaultRootPath = envOr("VAULT_ROOT_PATH", "")
	cfg.ToolPrefix = envOr("VAULT_TOOL_PREFIX", cfg.ToolPrefix)
	cfg.HTTPAddr = envOr("VAULT_HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = envOr("VAULT_LOG_LEVEL", cfg.LogLevel)

	if v := os.Getenv("VAULT_TTL_STRUCTURE_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse VAULT_TTL_STRUCTURE_SECONDS: %w", err)
		}
		cfg.TTLStructure = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("VAULT_TTL_NOTES_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse VAULT_TTL_NOTES_SECONDS: %w", err)
		}
		cfg.TTLNotes = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("VAULT_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse VAULT_BATCH_SIZE: %w", err)
		}
		cfg.BatchSize = n
	}
	if v := os.Getenv("VAULT_SEARCH_SNIPPET_RADIUS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse VAULT_SEARCH_SNIPPET_RADIUS: %w", err)
		}
		cfg.SearchSnippetRadius = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the invariants the rest of the core assumes it never
// has to re-check: a non-empty upstream, sane TTLs, and a positive batch
// size (spec.md fixes batch size at 15, but the field stays tunable for
// tests that want to observe a batch boundary without 15 notes).
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.UpstreamBaseURL, validation.Required),
		validation.Field(&c.UpstreamCredential, validation.Required),
		validation.Field(&c.ToolPrefix, validation.Required),
		validation.Field(&c.TTLStructure, validation.Min(time.Duration(0))),
		validation.Field(&c.TTLNotes, validation.Min(time.Duration(0))),
		validation.Field(&c.BatchSize, validation.Required, validation.Min(1)),
		validation.Field(&c.SearchSnippetRadius, validation.Min(0)),
	)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
