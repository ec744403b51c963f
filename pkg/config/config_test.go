package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
provider:
  api_key: ${TEST_OPENAI_KEY}
  text_model: gpt-4
  image_model: dall-e-3
  image_fidelity: high
server:
  addr: ":9090"
journal:
  enabled: true
archive:
  enabled: false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoad — ENV подстановка, явные значения и дефолты для остального.
func TestLoad(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-testtesttest")

	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Provider.APIKey != "sk-testtesttest" {
		t.Errorf("expected env-expanded api key, got %q", cfg.Provider.APIKey)
	}
	if cfg.Provider.TextModel != "gpt-4" || cfg.Provider.ImageFidelity != "high" {
		t.Error("explicit provider settings must survive load")
	}
	// Дефолты провайдера применены
	if cfg.Provider.HistoryBudget != 3000 {
		t.Errorf("expected default history budget, got %d", cfg.Provider.HistoryBudget)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected configured addr, got %q", cfg.Server.Addr)
	}
	if cfg.Journal.Path != "openai-brain.db" {
		t.Errorf("expected default journal path, got %q", cfg.Journal.Path)
	}
}

// TestLoad_MissingFile — отсутствующий файл это ошибка с понятным текстом.
func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoad_ArchiveValidation — включённый архив требует bucket и endpoint.
func TestLoad_ArchiveValidation(t *testing.T) {
	path := writeConfig(t, `
provider:
  api_key: sk-testtesttest
archive:
  enabled: true
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for enabled archive without bucket")
	}
}
