// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
instrument:
  driver: sim
  capture_timeout_ms: 2000

measure:
  sample_rate_hz: 100e6
  repetitions: 50
  response_bit: 0

flash:
  chip: STM32F411RE
  dir: ../arm_cm4

cases:
  - name: latency-isr-bypass
    build: release
    duration_s: 100e-6
    trigger_on_output: true
  - name: latency-isr-kernel
    build: release
    duration_s: 100e-6
    trigger_on_output: true
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "irqbench.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}

	if cfg.Instrument.Driver != "sim" {
		t.Fatalf("driver = %q", cfg.Instrument.Driver)
	}
	if cfg.Measure.SampleRateHz != 100e6 {
		t.Fatalf("sample rate = %g", cfg.Measure.SampleRateHz)
	}
	if len(cfg.Cases) != 2 {
		t.Fatalf("cases = %d, want 2", len(cfg.Cases))
	}
	if !cfg.Cases[0].TriggerOnOutput {
		t.Fatal("trigger_on_output not decoded")
	}
	if cfg.Fixture != nil {
		t.Fatal("fixture should be nil when absent")
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	if _, err := Load(writeTemp(t, "measurre:\n  repetitions: 5\n")); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
