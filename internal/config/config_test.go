// Copyright (c) 2026 Steve Jovs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	for _, key := range []string{"PORT", "GMAIL_CREDENTIALS_FILE", "GMAIL_TOKEN_FILE",
		"DEEPSEEK_API_KEY", "DEEPSEEK_BASE_URL", "DEEPSEEK_MODEL", "REDIS_URL", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.Port)
	}
	if cfg.CredentialsFile != "credentials.json" || cfg.TokenFile != "token.json" {
		t.Errorf("file defaults = %q, %q", cfg.CredentialsFile, cfg.TokenFile)
	}
	if cfg.LLMBaseURL != "https://api.deepseek.com/v1" || cfg.LLMModel != "deepseek-chat" {
		t.Errorf("llm defaults = %q, %q", cfg.LLMBaseURL, cfg.LLMModel)
	}
	if cfg.RedisURL != "" || cfg.DatabaseURL != "" {
		t.Errorf("optional backends not disabled by default: %q, %q", cfg.RedisURL, cfg.DatabaseURL)
	}
	if cfg.QueryCacheTTL != time.Hour {
		t.Errorf("QueryCacheTTL = %v, want 1h", cfg.QueryCacheTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PORT", "8080")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("QUERY_CACHE_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.LLMAPIKey != "sk-test" {
		t.Errorf("LLMAPIKey = %q", cfg.LLMAPIKey)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.QueryCacheTTL != 30*time.Minute {
		t.Errorf("QueryCacheTTL = %v, want 30m", cfg.QueryCacheTTL)
	}
}

func TestLoad_YAMLWithEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9100
gmail:
  credentials_file: ${CRED_DIR}/credentials.json
llm:
  model: deepseek-reasoner
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("CRED_DIR", "/etc/ragmail")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want 9100 from YAML", cfg.Port)
	}
	if cfg.CredentialsFile != "/etc/ragmail/credentials.json" {
		t.Errorf("CredentialsFile = %q, env reference not expanded", cfg.CredentialsFile)
	}
	if cfg.LLMModel != "deepseek-reasoner" {
		t.Errorf("LLMModel = %q", cfg.LLMModel)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a mapping"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)

	if _, err := Load(); err == nil {
		t.Error("Load() succeeded on malformed YAML, want error")
	}
}
