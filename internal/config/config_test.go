package config_test

import (
	"testing"
	"time"

	"github.com/griffinm/jotter/internal/config"
)

func TestLoadRequiresLLMAPIKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")

	if _, err := config.Load(); err == nil {
		t.Fatalf("Load must fail without an API key")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPPort != 8084 {
		t.Errorf("default port: got %d", cfg.HTTPPort)
	}
	if cfg.Addr() != ":8084" {
		t.Errorf("Addr: got %q", cfg.Addr())
	}
	if cfg.MaxToolIterations != 5 {
		t.Errorf("default tool iterations: got %d", cfg.MaxToolIterations)
	}
	if cfg.MaxHistoryMessages != 50 {
		t.Errorf("default history window: got %d", cfg.MaxHistoryMessages)
	}
	if cfg.JobPollInterval != 2*time.Second {
		t.Errorf("default poll interval: got %s", cfg.JobPollInterval)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("default worker count: got %d", cfg.WorkerCount)
	}
}

func TestLoadSanitizesNonPositiveBounds(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("MAX_TOOL_ITERATIONS", "0")
	t.Setenv("WORKER_COUNT", "-2")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxToolIterations != 5 {
		t.Errorf("zero iteration bound should fall back to 5, got %d", cfg.MaxToolIterations)
	}
	if cfg.WorkerCount != 1 {
		t.Errorf("negative worker count should fall back to 1, got %d", cfg.WorkerCount)
	}
}
